package analysis

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ppiankov/isnad/internal/llm"
	"github.com/ppiankov/isnad/internal/model"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// DecodeResult parses a raw model reply into a validated result.
// Any shape, type, enum or domain violation rejects the whole reply.
func DecodeResult(raw string) (model.AnalysisResult, error) {
	content := cleanJSONContent(raw)
	if content == "" {
		return model.AnalysisResult{}, &model.ContractViolation{Reason: "empty reply"}
	}

	var result model.AnalysisResult
	if err := jsonschema.VerifySchemaAndUnmarshal(llm.ResultSchema(), dropNullOptionals([]byte(content)), &result); err != nil {
		return model.AnalysisResult{}, &model.ContractViolation{Reason: "reply does not conform to result schema", Err: err}
	}

	if err := result.Validate(); err != nil {
		return model.AnalysisResult{}, err
	}

	return result, nil
}

// optionalFields may be sent as null, which reads the same as absent
var optionalFields = []string{"narratorChain", "narrators"}

// dropNullOptionals removes optional fields whose value is null.
// Anything that is not a JSON object is returned unchanged for the schema check to reject.
func dropNullOptionals(content []byte) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil {
		return content
	}

	dropped := false
	for _, name := range optionalFields {
		if v, ok := fields[name]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(fields, name)
			dropped = true
		}
	}
	if !dropped {
		return content
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return content
	}
	return out
}

// cleanJSONContent removes a markdown code fence around the JSON object
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") && len(content) >= 6 {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return content
}
