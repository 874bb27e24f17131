package dataset

import (
	"math"

	"github.com/chrissnell/eukleides/pkg/classifier"
	"gonum.org/v1/gonum/stat"
)

// Summary keys reported by the classifier for a batch.
const (
	SummaryCandidates        = "Candidate Planets"
	SummaryConfirmed         = "Confirmed Planets"
	SummaryFalsePositives    = "False Positives"
	SummaryAverageConfidence = "Average Confidence (%)"
)

// KeyInsights singles out the rows most worth a human look.
type KeyInsights struct {
	MostPromisingCandidate    Row `json:"most_promising_candidate" msgpack:"most_promising_candidate"`
	MostConfidentConfirmation Row `json:"most_confident_confirmation" msgpack:"most_confident_confirmation"`
	HighestPriorityReview     Row `json:"highest_priority_review" msgpack:"highest_priority_review"`
}

// ConfidenceStats describes the spread of prediction confidence in a batch.
type ConfidenceStats struct {
	Count  int     `json:"count" msgpack:"count"`
	Mean   float64 `json:"mean" msgpack:"mean"`
	StdDev float64 `json:"std_dev" msgpack:"std_dev"`
	Min    float64 `json:"min" msgpack:"min"`
	Max    float64 `json:"max" msgpack:"max"`
}

// Analysis is the digest of one classified batch.
type Analysis struct {
	Summary     map[string]float64 `json:"summary" msgpack:"summary"`
	Counts      map[string]int     `json:"counts" msgpack:"counts"`
	Confidence  ConfidenceStats    `json:"confidence" msgpack:"confidence"`
	KeyInsights KeyInsights        `json:"key_insights" msgpack:"key_insights"`
	Table       *Table             `json:"table" msgpack:"table"`
}

// Analyze computes key insights and statistics for a classified table. When
// summary is empty the class counts and average confidence are derived from
// the rows. Rows whose confidence is not numeric are never picked as an
// insight.
func Analyze(t *Table, summary map[string]float64) *Analysis {
	a := &Analysis{
		Counts: map[string]int{
			string(classifier.CategoryCandidate):     0,
			string(classifier.CategoryConfirmed):     0,
			string(classifier.CategoryFalsePositive): 0,
		},
		Table: t,
	}

	var confidences []float64
	var bestCandidate, bestConfirmed, lowestFalse float64

	for _, row := range t.Rows {
		category := classifier.CategoryOf(row.String(ColumnPrediction))
		if category != classifier.CategoryUnknown {
			a.Counts[string(category)]++
		}

		conf, ok := row.Number(ColumnConfidence)
		if !ok || math.IsNaN(conf) {
			continue
		}
		confidences = append(confidences, conf)

		// strict comparisons keep the first row on ties
		switch category {
		case classifier.CategoryCandidate:
			if a.KeyInsights.MostPromisingCandidate == nil || conf > bestCandidate {
				a.KeyInsights.MostPromisingCandidate, bestCandidate = row, conf
			}
		case classifier.CategoryConfirmed:
			if a.KeyInsights.MostConfidentConfirmation == nil || conf > bestConfirmed {
				a.KeyInsights.MostConfidentConfirmation, bestConfirmed = row, conf
			}
		case classifier.CategoryFalsePositive:
			if a.KeyInsights.HighestPriorityReview == nil || conf < lowestFalse {
				a.KeyInsights.HighestPriorityReview, lowestFalse = row, conf
			}
		}
	}

	a.Confidence = confidenceStats(confidences)

	if len(summary) > 0 {
		a.Summary = summary
	} else {
		a.Summary = map[string]float64{
			SummaryCandidates:        float64(a.Counts[string(classifier.CategoryCandidate)]),
			SummaryConfirmed:         float64(a.Counts[string(classifier.CategoryConfirmed)]),
			SummaryFalsePositives:    float64(a.Counts[string(classifier.CategoryFalsePositive)]),
			SummaryAverageConfidence: math.Round(a.Confidence.Mean*100) / 100,
		}
	}
	return a
}

func confidenceStats(values []float64) ConfidenceStats {
	s := ConfidenceStats{Count: len(values)}
	if len(values) == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		s.StdDev = 0
	}
	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}
