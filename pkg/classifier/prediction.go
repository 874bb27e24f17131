package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the normalized outcome of a prediction.
type Category string

const (
	CategoryCandidate     Category = "candidate"
	CategoryConfirmed     Category = "confirmed"
	CategoryFalsePositive Category = "false-positive"
	CategoryUnknown       Category = "unknown"
)

// Labels returned by the classifier backend.
const (
	LabelCandidate     = "Candidate Planet"
	LabelConfirmed     = "Confirmed Planet"
	LabelFalsePositive = "False Positive"
)

// CategoryOf maps a backend label onto a Category by its text.
func CategoryOf(label string) Category {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "false"):
		return CategoryFalsePositive
	case strings.Contains(l, "confirmed"):
		return CategoryConfirmed
	case strings.Contains(l, "candidate"):
		return CategoryCandidate
	default:
		return CategoryUnknown
	}
}

// ClassProbability is one entry of the probability breakdown.
type ClassProbability struct {
	Label       string  `json:"label" msgpack:"label"`
	Probability float64 `json:"probability" msgpack:"probability"`
}

// Breakdown keeps the class probabilities in the order the backend sent them.
type Breakdown []ClassProbability

// UnmarshalJSON decodes either the backend's object of label -> percent,
// preserving key order, or the array of entries Breakdown marshals to.
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var entries []ClassProbability
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("probability breakdown: %w", err)
		}
		*b = entries
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("probability breakdown: expected object, got %v", tok)
	}

	var out Breakdown
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := tok.(string)

		var p *float64
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("probability breakdown %q: %w", label, err)
		}
		cp := ClassProbability{Label: label}
		if p != nil {
			cp.Probability = *p
		}
		out = append(out, cp)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}

// Prediction is the classifier's verdict on one feature vector.
type Prediction struct {
	RequestID     string        `json:"request_id" msgpack:"request_id"`
	Label         string        `json:"label" msgpack:"label"`
	Confidence    float64       `json:"confidence" msgpack:"confidence"`
	Probabilities Breakdown     `json:"probabilities" msgpack:"probabilities"`
	Inputs        FeatureVector `json:"inputs" msgpack:"inputs"`
}

// Category derives the normalized outcome from the label.
func (p *Prediction) Category() Category {
	return CategoryOf(p.Label)
}

// predictRequest is the body sent to the predict endpoint.
type predictRequest struct {
	Inputs []float64 `json:"inputs"`
}

// predictResponse is the body returned by the predict endpoint. Missing
// fields fall back to "N/A" and zero.
type predictResponse struct {
	OverallPrediction *string   `json:"overall_prediction"`
	Confidence        *float64  `json:"prediction_confidence(%)"`
	Breakdown         Breakdown `json:"probability_breakdown(%)"`
	Error             *string   `json:"error"`
}
