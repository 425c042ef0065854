package llm

import (
	"encoding/json"

	"github.com/ppiankov/isnad/internal/model"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// ResultSchemaName names the schema for providers that require one
const ResultSchemaName = "hadith_analysis"

// ResultSchema describes the exact object the model must return.
// It is attached to every outbound request.
func ResultSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"verdict": {
				Type:        jsonschema.String,
				Enum:        model.VerdictLabels(),
				Description: "Final hadith ruling.",
			},
			"confidenceScore": {
				Type:        jsonschema.Number,
				Description: "Authenticity probability (0-100). MUST be 0 if a significant matn contradiction is found.",
			},
			"quranicConsistency": {
				Type:        jsonschema.Number,
				Description: "Compatibility with the Quran (0-1). 0 if the matn contradicts Quranic principles.",
			},
			"isnadScore": {
				Type:        jsonschema.Number,
				Description: "Chain quality (0-1): narrator reliability and continuity.",
			},
			"matnScore": {
				Type:        jsonschema.Number,
				Description: "Text integrity (0-1). 0 if a negation is inserted into a known affirmation.",
			},
			"reasoning": {
				Type:        jsonschema.String,
				Description: "Scholarly explanation in Arabic using Mustalah al-Hadith terminology (Thiqah, Dabt, Shadh, Munkar, Illah Qadihah).",
			},
			"mathFormula": {
				Type:        jsonschema.String,
				Description: "Logical formula representing the ruling.",
			},
			"narratorChain": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "List of narrators (sanad) in transmission order.",
			},
			"narrators": {
				Type:        jsonschema.Array,
				Items:       narratorSchema(),
				Description: "Detailed analysis of each narrator in the chain.",
			},
			"orthogonalityCheck": {
				Type:        jsonschema.String,
				Description: "Explanation of the textual comparison with the Quran and well-known Sunnah.",
			},
		},
		Required: []string{
			"verdict",
			"confidenceScore",
			"quranicConsistency",
			"isnadScore",
			"matnScore",
			"reasoning",
			"mathFormula",
			"orthogonalityCheck",
		},
	}
}

func narratorSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"name":             {Type: jsonschema.String, Description: "Narrator's full name"},
			"reliabilityScore": {Type: jsonschema.Number, Description: "Reliability score (0-100)"},
			"status":           {Type: jsonschema.String, Description: "Status (e.g., Thiqah, Saduq, Da'if, Majhul)"},
			"biographySnippet": {Type: jsonschema.String, Description: "Brief info from works such as Tahdhib al-Tahdhib"},
		},
		Required: []string{"name", "reliabilityScore", "status", "biographySnippet"},
	}
}

// ResultSchemaJSON returns the schema as standard JSON Schema
func ResultSchemaJSON() json.RawMessage {
	def := ResultSchema()
	data, err := json.Marshal(&def)
	if err != nil {
		// the definition is a constant; a marshal failure is a programming error
		panic("llm: marshal result schema: " + err.Error())
	}
	return data
}

// geminiSchema converts a definition into Gemini's OpenAPI-subset schema,
// which spells types in upper case and has no additionalProperties.
func geminiSchema(def jsonschema.Definition) map[string]any {
	out := map[string]any{
		"type": geminiType(def.Type),
	}
	if def.Description != "" {
		out["description"] = def.Description
	}
	if len(def.Enum) > 0 {
		out["enum"] = def.Enum
	}
	if len(def.Properties) > 0 {
		props := make(map[string]any, len(def.Properties))
		for name, p := range def.Properties {
			props[name] = geminiSchema(p)
		}
		out["properties"] = props
	}
	if len(def.Required) > 0 {
		out["required"] = def.Required
	}
	if def.Items != nil {
		out["items"] = geminiSchema(*def.Items)
	}
	return out
}

func geminiType(t jsonschema.DataType) string {
	switch t {
	case jsonschema.Object:
		return "OBJECT"
	case jsonschema.Array:
		return "ARRAY"
	case jsonschema.Number:
		return "NUMBER"
	case jsonschema.Integer:
		return "INTEGER"
	case jsonschema.Boolean:
		return "BOOLEAN"
	default:
		return "STRING"
	}
}
