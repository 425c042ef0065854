package model

import (
	"fmt"
	"math"
	"strings"
)

// Narrator is one transmitter in the chain (isnad)
type Narrator struct {
	Name             string  `json:"name" yaml:"name"`
	ReliabilityScore float64 `json:"reliabilityScore" yaml:"reliability_score"` // 0-100
	Status           string  `json:"status" yaml:"status"`                      // e.g. Thiqah, Saduq, Da'if, Majhul
	BiographySnippet string  `json:"biographySnippet" yaml:"biography_snippet"`
}

// AnalysisResult is the judgment returned by one analysis call
type AnalysisResult struct {
	Verdict            Verdict    `json:"verdict" yaml:"verdict"`
	ConfidenceScore    float64    `json:"confidenceScore" yaml:"confidence_score"`       // 0-100
	QuranicConsistency float64    `json:"quranicConsistency" yaml:"quranic_consistency"` // 0-1
	IsnadScore         float64    `json:"isnadScore" yaml:"isnad_score"`                 // 0-1, chain quality
	MatnScore          float64    `json:"matnScore" yaml:"matn_score"`                   // 0-1, text integrity
	Reasoning          string     `json:"reasoning" yaml:"reasoning"`
	MathFormula        string     `json:"mathFormula" yaml:"math_formula"` // displayed verbatim
	OrthogonalityCheck string     `json:"orthogonalityCheck" yaml:"orthogonality_check"`
	NarratorChain      []string   `json:"narratorChain,omitempty" yaml:"narrator_chain,omitempty"`
	Narrators          []Narrator `json:"narrators,omitempty" yaml:"narrators,omitempty"`
}

// Fallback strings shown when the external model could not produce a judgment
const (
	FallbackReasoning          = "تعذر الوصول إلى المصادر الرقمية. يرجى التحقق من الاتصال."
	FallbackMathFormula        = "Error = 1"
	FallbackOrthogonalityCheck = "خطأ في المعالجة."
)

// Fallback returns the deterministic result used for every externally caused failure
func Fallback() AnalysisResult {
	return AnalysisResult{
		Verdict:            VerdictGharib,
		ConfidenceScore:    0,
		QuranicConsistency: 0,
		IsnadScore:         0,
		MatnScore:          0,
		Reasoning:          FallbackReasoning,
		MathFormula:        FallbackMathFormula,
		OrthogonalityCheck: FallbackOrthogonalityCheck,
		NarratorChain:      []string{},
		Narrators:          []Narrator{},
	}
}

// IsFallback reports whether r is the fallback result
func (r AnalysisResult) IsFallback() bool {
	return r.Verdict == VerdictGharib &&
		r.ConfidenceScore == 0 && r.QuranicConsistency == 0 &&
		r.IsnadScore == 0 && r.MatnScore == 0 &&
		r.Reasoning == FallbackReasoning &&
		r.MathFormula == FallbackMathFormula &&
		r.OrthogonalityCheck == FallbackOrthogonalityCheck &&
		len(r.NarratorChain) == 0 && len(r.Narrators) == 0
}

// Validate checks every invariant of a result. The first violation is returned;
// a result that fails is discarded as a whole.
//
// confidenceScore is checked for domain only. A zero confidence paired with a
// non-MAWDU verdict is passed through as-is.
func (r AnalysisResult) Validate() error {
	if !r.Verdict.Valid() {
		return &ContractViolation{Field: "verdict", Reason: "unrecognized verdict " + quote(string(r.Verdict))}
	}
	if err := checkRange("confidenceScore", r.ConfidenceScore, 0, 100); err != nil {
		return err
	}
	if err := checkRange("quranicConsistency", r.QuranicConsistency, 0, 1); err != nil {
		return err
	}
	if err := checkRange("isnadScore", r.IsnadScore, 0, 1); err != nil {
		return err
	}
	if err := checkRange("matnScore", r.MatnScore, 0, 1); err != nil {
		return err
	}
	if strings.TrimSpace(r.Reasoning) == "" {
		return &ContractViolation{Field: "reasoning", Reason: "empty"}
	}
	for i, n := range r.Narrators {
		field := fmt.Sprintf("narrators[%d]", i)
		if strings.TrimSpace(n.Name) == "" {
			return &ContractViolation{Field: field + ".name", Reason: "empty"}
		}
		if err := checkRange(field+".reliabilityScore", n.ReliabilityScore, 0, 100); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ContractViolation{Field: field, Reason: "not a finite number"}
	}
	if v < lo || v > hi {
		return &ContractViolation{Field: field, Reason: fmt.Sprintf("%g outside [%g, %g]", v, lo, hi)}
	}
	return nil
}
