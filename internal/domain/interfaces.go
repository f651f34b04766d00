package domain

import "time"

// Label is the canonical two-value classification outcome.
type Label string

const (
	LabelSpam Label = "spam"
	LabelHam  Label = "ham"
)

// IsSpam reports whether the label is LabelSpam.
func (l Label) IsSpam() bool { return l == LabelSpam }

// Display returns the upper-cased label as shown to users.
func (l Label) Display() string {
	if l == LabelSpam {
		return "SPAM"
	}
	return "HAM"
}

// Vector is a dense feature representation produced by a Vectorizer.
type Vector []float64

// RawLabel is whatever a classifier artifact stores as a class value:
// a number, a string or a bool. It is coerced into a Label by the service.
type RawLabel = any

// PredictionResult is the outcome of classifying one message.
// Confidence is nil when the classifier could not estimate it.
type PredictionResult struct {
	ID         string    `json:"id"`
	Label      Label     `json:"label"`
	Confidence *float64  `json:"confidence"`
	InputText  string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// HasConfidence reports whether a confidence value is present.
func (r PredictionResult) HasConfidence() bool { return r.Confidence != nil }

// Vectorizer converts normalized text into a feature vector.
type Vectorizer interface {
	Name() string
	Dimension() int
	Transform(text string) (Vector, error)
}

// Classifier maps a feature vector to one of its two raw class labels.
type Classifier interface {
	Name() string
	Classes() []RawLabel
	PredictLabel(features Vector) (RawLabel, error)
}

// ConfidenceEstimator is an optional Classifier capability returning
// per-class probabilities in the order of Classes().
type ConfidenceEstimator interface {
	PredictProba(features Vector) ([]float64, error)
}
