package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smsclassifier/internal/artifacts"
	"smsclassifier/internal/domain"
	"smsclassifier/internal/textnorm"
)

// ModelInfo describes the loaded artifacts for display.
type ModelInfo struct {
	Vectorizer string `json:"vectorizer"`
	Classifier string `json:"classifier"`
	Dimension  int    `json:"dimension"`
	Confidence bool   `json:"confidence"`
}

// BatchItem is the outcome of one text in ClassifyBatch.
type BatchItem struct {
	Result domain.PredictionResult
	Err    error
}

// Classifier normalizes text, runs the loaded artifacts and coerces the
// output into a PredictionResult. It keeps no per-request state and is safe
// for concurrent use.
type Classifier struct {
	bundle *artifacts.Bundle
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for degraded-result diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// WithIDGenerator overrides result ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(c *Classifier) { c.newID = newID }
}

// New builds the facade over a loaded bundle.
func New(bundle *artifacts.Bundle, opts ...Option) (*Classifier, error) {
	if bundle == nil || bundle.Vectorizer == nil || bundle.Classifier == nil {
		return nil, fmt.Errorf("new classifier: %w", artifacts.ErrNotLoaded)
	}
	c := &Classifier{
		bundle: bundle,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Info reports which artifacts back this classifier.
func (c *Classifier) Info() ModelInfo {
	return ModelInfo{
		Vectorizer: c.bundle.Vectorizer.Name(),
		Classifier: c.bundle.Classifier.Name(),
		Dimension:  c.bundle.Vectorizer.Dimension(),
		Confidence: c.bundle.HasConfidence(),
	}
}

// Classify predicts the label of one message. Callers should reject blank
// input first; it is answered with ErrEmptyInput here.
// Vectorizer and classifier failures are returned as *PredictError. A failed
// confidence estimate only leaves Confidence nil.
func (c *Classifier) Classify(text string) (domain.PredictionResult, error) {
	if textnorm.IsBlank(text) {
		return domain.PredictionResult{}, ErrEmptyInput
	}
	normalized := textnorm.Normalize(text)

	features, err := c.bundle.Vectorizer.Transform(normalized)
	if err != nil {
		return domain.PredictionResult{}, &PredictError{Stage: "transform", Err: err}
	}
	raw, err := c.bundle.Classifier.PredictLabel(features)
	if err != nil {
		return domain.PredictionResult{}, &PredictError{Stage: "predict", Err: err}
	}
	label, recognized := CoerceLabel(raw)
	if !recognized {
		c.logger.Debug("Unrecognized classifier label treated as ham",
			zap.Any("raw_label", raw),
			zap.String("classifier", c.bundle.Classifier.Name()),
		)
	}

	return domain.PredictionResult{
		ID:         c.newID(),
		Label:      label,
		Confidence: c.confidence(features),
		InputText:  text,
		Timestamp:  c.now(),
	}, nil
}

// ClassifyBatch classifies each text independently.
func (c *Classifier) ClassifyBatch(texts []string) []BatchItem {
	items := make([]BatchItem, len(texts))
	for i, text := range texts {
		res, err := c.Classify(text)
		items[i] = BatchItem{Result: res, Err: err}
	}
	return items
}

func (c *Classifier) confidence(features domain.Vector) (conf *float64) {
	estimator := c.bundle.Confidence
	if estimator == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Confidence estimation panicked", zap.Any("panic", r))
			conf = nil
		}
	}()
	proba, err := estimator.PredictProba(features)
	if err != nil {
		c.logger.Debug("Confidence estimation failed", zap.Error(err))
		return nil
	}
	if len(proba) == 0 {
		return nil
	}
	best := math.Inf(-1)
	for _, p := range proba {
		if math.IsNaN(p) {
			return nil
		}
		if p > best {
			best = p
		}
	}
	if best < 0 || best > 1 {
		return nil
	}
	return &best
}
