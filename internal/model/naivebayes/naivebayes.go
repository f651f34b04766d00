package naivebayes

import (
	"errors"
	"fmt"
	"math"

	"smsclassifier/internal/domain"
)

// Kind is the artifact kind handled by this package.
const Kind = "multinomial_nb"

// Spec is the serialized form of a fitted multinomial naive Bayes model.
type Spec struct {
	Classes        []domain.RawLabel `json:"classes"`
	ClassLogPrior  []float64         `json:"class_log_prior"`
	FeatureLogProb [][]float64       `json:"feature_log_prob"`
}

// Classifier is a two-class multinomial naive Bayes model.
type Classifier struct {
	classes        []domain.RawLabel
	classLogPrior  []float64
	featureLogProb [][]float64
	width          int
}

var (
	_ domain.Classifier          = (*Classifier)(nil)
	_ domain.ConfidenceEstimator = (*Classifier)(nil)
)

// New validates spec and builds the model.
func New(spec Spec) (*Classifier, error) {
	if len(spec.Classes) != 2 {
		return nil, fmt.Errorf("naivebayes: expected 2 classes, got %d", len(spec.Classes))
	}
	for i, c := range spec.Classes {
		if c == nil {
			return nil, fmt.Errorf("naivebayes: class %d is null", i)
		}
	}
	if len(spec.ClassLogPrior) != 2 {
		return nil, fmt.Errorf("naivebayes: expected 2 class priors, got %d", len(spec.ClassLogPrior))
	}
	if len(spec.FeatureLogProb) != 2 {
		return nil, fmt.Errorf("naivebayes: expected 2 feature rows, got %d", len(spec.FeatureLogProb))
	}
	width := len(spec.FeatureLogProb[0])
	if width == 0 {
		return nil, errors.New("naivebayes: empty feature row")
	}
	rows := make([][]float64, 2)
	for i, row := range spec.FeatureLogProb {
		if len(row) != width {
			return nil, fmt.Errorf("naivebayes: feature row %d has %d columns, want %d", i, len(row), width)
		}
		rows[i] = append([]float64(nil), row...)
	}
	return &Classifier{
		classes:        append([]domain.RawLabel(nil), spec.Classes...),
		classLogPrior:  append([]float64(nil), spec.ClassLogPrior...),
		featureLogProb: rows,
		width:          width,
	}, nil
}

func (c *Classifier) Name() string { return Kind }

func (c *Classifier) Width() int { return c.width }

func (c *Classifier) Classes() []domain.RawLabel {
	return append([]domain.RawLabel(nil), c.classes...)
}

// jointLogLikelihood returns log P(c) + sum_j x_j log P(x_j|c) per class.
func (c *Classifier) jointLogLikelihood(features domain.Vector) ([]float64, error) {
	if len(features) != c.width {
		return nil, fmt.Errorf("feature dimension mismatch: got %d, model expects %d", len(features), c.width)
	}
	jll := make([]float64, len(c.classes))
	for k := range c.classes {
		sum := c.classLogPrior[k]
		for j, x := range features {
			if x != 0 {
				sum += x * c.featureLogProb[k][j]
			}
		}
		jll[k] = sum
	}
	return jll, nil
}

func (c *Classifier) PredictLabel(features domain.Vector) (domain.RawLabel, error) {
	jll, err := c.jointLogLikelihood(features)
	if err != nil {
		return nil, err
	}
	if jll[1] > jll[0] {
		return c.classes[1], nil
	}
	return c.classes[0], nil
}

// PredictProba normalizes the joint log likelihood with log-sum-exp.
func (c *Classifier) PredictProba(features domain.Vector) ([]float64, error) {
	jll, err := c.jointLogLikelihood(features)
	if err != nil {
		return nil, err
	}
	maxLL := math.Max(jll[0], jll[1])
	sum := 0.0
	for _, v := range jll {
		sum += math.Exp(v - maxLL)
	}
	logNorm := maxLL + math.Log(sum)
	out := make([]float64, len(jll))
	for i, v := range jll {
		out[i] = math.Exp(v - logNorm)
	}
	return out, nil
}
