// Package linear holds binary linear classifiers exported as coefficient artifacts.
// LogisticRegression can estimate confidence; LinearSVC cannot.
package linear

import (
	"errors"
	"fmt"
	"math"

	"smsclassifier/internal/domain"
)

const (
	KindLogisticRegression = "logistic_regression"
	KindLinearSVC          = "linear_svc"
)

// Spec is the serialized form of a binary linear model.
// Coef has a single row; a positive decision value selects Classes[1].
type Spec struct {
	Classes   []domain.RawLabel `json:"classes"`
	Coef      [][]float64       `json:"coef"`
	Intercept []float64         `json:"intercept"`
}

type model struct {
	classes   []domain.RawLabel
	weights   []float64
	intercept float64
}

func newModel(spec Spec) (model, error) {
	if len(spec.Classes) != 2 {
		return model{}, fmt.Errorf("linear: expected 2 classes, got %d", len(spec.Classes))
	}
	for i, c := range spec.Classes {
		if c == nil {
			return model{}, fmt.Errorf("linear: class %d is null", i)
		}
	}
	if len(spec.Coef) != 1 {
		return model{}, fmt.Errorf("linear: expected 1 coefficient row, got %d", len(spec.Coef))
	}
	if len(spec.Coef[0]) == 0 {
		return model{}, errors.New("linear: empty coefficient row")
	}
	if len(spec.Intercept) != 1 {
		return model{}, fmt.Errorf("linear: expected 1 intercept, got %d", len(spec.Intercept))
	}
	return model{
		classes:   append([]domain.RawLabel(nil), spec.Classes...),
		weights:   append([]float64(nil), spec.Coef[0]...),
		intercept: spec.Intercept[0],
	}, nil
}

func (m model) Classes() []domain.RawLabel {
	return append([]domain.RawLabel(nil), m.classes...)
}

// Width returns the number of features the model expects.
func (m model) Width() int { return len(m.weights) }

func (m model) decision(features domain.Vector) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("feature dimension mismatch: got %d, model expects %d", len(features), len(m.weights))
	}
	sum := m.intercept
	for i, w := range m.weights {
		sum += w * features[i]
	}
	return sum, nil
}

func (m model) PredictLabel(features domain.Vector) (domain.RawLabel, error) {
	d, err := m.decision(features)
	if err != nil {
		return nil, err
	}
	if d > 0 {
		return m.classes[1], nil
	}
	return m.classes[0], nil
}

// LogisticRegression is a binary logistic model.
type LogisticRegression struct{ model }

var (
	_ domain.Classifier          = (*LogisticRegression)(nil)
	_ domain.ConfidenceEstimator = (*LogisticRegression)(nil)
)

// NewLogisticRegression validates spec and builds the model.
func NewLogisticRegression(spec Spec) (*LogisticRegression, error) {
	m, err := newModel(spec)
	if err != nil {
		return nil, err
	}
	return &LogisticRegression{model: m}, nil
}

func (m *LogisticRegression) Name() string { return KindLogisticRegression }

// PredictProba returns [P(Classes[0]), P(Classes[1])].
func (m *LogisticRegression) PredictProba(features domain.Vector) ([]float64, error) {
	d, err := m.decision(features)
	if err != nil {
		return nil, err
	}
	p := 1 / (1 + math.Exp(-d))
	return []float64{1 - p, p}, nil
}

// LinearSVC is a binary linear support vector classifier without probability output.
type LinearSVC struct{ model }

var _ domain.Classifier = (*LinearSVC)(nil)

// NewLinearSVC validates spec and builds the model.
func NewLinearSVC(spec Spec) (*LinearSVC, error) {
	m, err := newModel(spec)
	if err != nil {
		return nil, err
	}
	return &LinearSVC{model: m}, nil
}

func (m *LinearSVC) Name() string { return KindLinearSVC }
