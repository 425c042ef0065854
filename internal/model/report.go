package model

import "time"

// Report is everything the rendering layer may consume for one analysis.
// Raw model output never appears here.
type Report struct {
	ID         string    `json:"id" yaml:"id"`
	Input      string    `json:"input" yaml:"input"`
	AnalyzedAt time.Time `json:"analyzed_at" yaml:"analyzed_at"`
	Provider   string    `json:"provider" yaml:"provider"`
	Model      string    `json:"model,omitempty" yaml:"model,omitempty"`

	// Degraded is set when Result is the fallback; Failure carries the absorbed error
	Degraded bool   `json:"degraded" yaml:"degraded"`
	Failure  string `json:"failure,omitempty" yaml:"failure,omitempty"`

	Result     AnalysisResult `json:"result" yaml:"result"`
	Severity   Class          `json:"severity" yaml:"severity"`
	Radar      []Point        `json:"radar" yaml:"radar"`
	Comparison []Point        `json:"comparison" yaml:"comparison"`
	Chain      []Link         `json:"chain" yaml:"chain"`
}

// Point is one chart entry with a value in [0, 100]
type Point struct {
	Key   string  `json:"key" yaml:"key"`     // stable identifier
	Label string  `json:"label" yaml:"label"` // display label
	Value float64 `json:"value" yaml:"value"`
	Tone  Tone    `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// Tone is the fill hint for a comparison bar
type Tone string

const (
	ToneStrong  Tone = "strong"
	ToneWeak    Tone = "weak"
	ToneNeutral Tone = "neutral"
)

// Link is a connector between two consecutive narrators in the chain
type Link struct {
	Index int    `json:"index" yaml:"index"`
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
}
