package worker

import (
	"github.com/montanaflynn/stats"

	"github.com/ppiankov/isnad/internal/model"
)

// Summary aggregates a finished batch
type Summary struct {
	Total    int
	Failed   int // no report at all (configuration error, cancellation)
	Degraded int // report carries the fallback result

	Verdicts map[model.Verdict]int

	// Confidence statistics over non-degraded reports; zero when there are none
	MeanConfidence   float64
	MedianConfidence float64
	StdDevConfidence float64
	MinConfidence    float64
	MaxConfidence    float64
}

// Summarize computes batch statistics
func Summarize(results []*ItemResult) Summary {
	s := Summary{
		Total:    len(results),
		Verdicts: make(map[model.Verdict]int),
	}

	var confidence stats.Float64Data
	for _, res := range results {
		if res.Error != nil || res.Report == nil {
			s.Failed++
			continue
		}
		if res.Report.Degraded {
			s.Degraded++
			continue
		}
		s.Verdicts[res.Report.Result.Verdict]++
		confidence = append(confidence, res.Report.Result.ConfidenceScore)
	}

	if len(confidence) == 0 {
		return s
	}

	s.MeanConfidence, _ = stats.Mean(confidence)
	s.MedianConfidence, _ = stats.Median(confidence)
	s.StdDevConfidence, _ = stats.StandardDeviation(confidence)
	s.MinConfidence, _ = stats.Min(confidence)
	s.MaxConfidence, _ = stats.Max(confidence)

	return s
}
