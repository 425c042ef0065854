// Package score derives chart series from a validated AnalysisResult.
// Every function here is pure: no I/O, no failure modes.
package score

import "github.com/ppiankov/isnad/internal/model"

// Tunable policy, not derived math.
const (
	// MemoryDiscount scales isnadScore into the memory-precision axis
	MemoryDiscount = 0.9

	// AnomalyThreshold is the quranicConsistency at or above which the
	// absence-of-anomaly axis reads 100 (and 0 below it)
	AnomalyThreshold = 0.5
)

// Radar axis keys, in display order
const (
	AxisNarratorIntegrity = "narrator_integrity"
	AxisMemoryPrecision   = "memory_precision"
	AxisTextualSoundness  = "textual_soundness"
	AxisQuranAgreement    = "quran_agreement"
	AxisAbsenceOfAnomaly  = "absence_of_anomaly"
)

// Comparison bar keys, in display order
const (
	BarAuthenticity = "authenticity_likelihood"
	BarAnomaly      = "anomaly_ratio"
)

// RadarSeries returns the five radar axes in fixed order
func RadarSeries(r model.AnalysisResult) []model.Point {
	anomaly := 0.0
	if r.QuranicConsistency >= AnomalyThreshold {
		anomaly = 100
	}

	return []model.Point{
		{Key: AxisNarratorIntegrity, Label: "عدالة الرواة", Value: r.IsnadScore * 100},
		{Key: AxisMemoryPrecision, Label: "ضبط الصدر", Value: r.IsnadScore * (MemoryDiscount * 100)},
		{Key: AxisTextualSoundness, Label: "سلامة المتن", Value: r.MatnScore * 100},
		{Key: AxisQuranAgreement, Label: "موافقة القرآن", Value: r.QuranicConsistency * 100},
		{Key: AxisAbsenceOfAnomaly, Label: "انتفاء الشذوذ", Value: anomaly},
	}
}

// ComparisonSeries returns the authenticity and anomaly bars.
// The two come from different fields and are not complements of each other.
func ComparisonSeries(r model.AnalysisResult) []model.Point {
	points := []model.Point{
		{Key: BarAuthenticity, Label: "احتمالية الصحة", Value: r.ConfidenceScore},
		{Key: BarAnomaly, Label: "نسبة النكارة", Value: (1 - r.QuranicConsistency) * 100},
	}
	for i := range points {
		points[i].Tone = BarTone(i, points[i])
	}
	return points
}

// BarTone picks the fill for comparison bar i: the authenticity bar is strong
// above 50 and weak otherwise, the anomaly bar is always neutral.
func BarTone(i int, p model.Point) model.Tone {
	if i != 0 {
		return model.ToneNeutral
	}
	if p.Value > 50 {
		return model.ToneStrong
	}
	return model.ToneWeak
}

// ChainLinks returns the N-1 connectors between consecutive chain entries.
// narratorChain is the only input; narrators may have a different length.
func ChainLinks(chain []string) []model.Link {
	if len(chain) < 2 {
		return []model.Link{}
	}

	links := make([]model.Link, 0, len(chain)-1)
	for i := 1; i < len(chain); i++ {
		links = append(links, model.Link{Index: i - 1, From: chain[i-1], To: chain[i]})
	}
	return links
}
