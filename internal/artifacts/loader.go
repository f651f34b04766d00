// Package artifacts reads the vectorizer and classifier files once per process
// and hands them to the classification service as an immutable Bundle.
package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"smsclassifier/internal/domain"
	"smsclassifier/internal/model/linear"
	"smsclassifier/internal/model/naivebayes"
	"smsclassifier/internal/vectorizer/tfidf"
)

const (
	DefaultVectorizerPath = "tfidf_vectorizer.json"
	DefaultClassifierPath = "spam_model.json"
)

// Paths locates the two artifact files.
type Paths struct {
	Vectorizer string
	Classifier string
}

// DefaultPaths returns the conventional file names in the working directory.
func DefaultPaths() Paths {
	return Paths{Vectorizer: DefaultVectorizerPath, Classifier: DefaultClassifierPath}
}

// Bundle is a loaded vectorizer/classifier pair.
// Confidence is nil when the classifier cannot estimate probabilities.
type Bundle struct {
	Vectorizer domain.Vectorizer
	Classifier domain.Classifier
	Confidence domain.ConfidenceEstimator
	Paths      Paths
}

// HasConfidence reports whether the classifier supports confidence estimation.
func (b *Bundle) HasConfidence() bool { return b.Confidence != nil }

// NewBundle pairs a vectorizer and classifier, probing the optional capability once.
func NewBundle(v domain.Vectorizer, c domain.Classifier) *Bundle {
	b := &Bundle{Vectorizer: v, Classifier: c}
	if ce, ok := c.(domain.ConfidenceEstimator); ok {
		b.Confidence = ce
	}
	return b
}

type widthReporter interface {
	Width() int
}

// Loader loads artifacts at most once and caches the outcome, including failure.
type Loader struct {
	paths    Paths
	logger   *zap.Logger
	readFile func(string) ([]byte, error)

	once   sync.Once
	bundle *Bundle
	err    error
}

// NewLoader creates a loader for the given paths. Empty paths fall back to defaults.
func NewLoader(paths Paths, logger *zap.Logger) *Loader {
	def := DefaultPaths()
	if paths.Vectorizer == "" {
		paths.Vectorizer = def.Vectorizer
	}
	if paths.Classifier == "" {
		paths.Classifier = def.Classifier
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{paths: paths, logger: logger, readFile: os.ReadFile}
}

// Paths returns the artifact locations this loader reads.
func (l *Loader) Paths() Paths { return l.paths }

// Load returns the cached bundle, reading the files on first call only.
// A failed load is not retried; every call returns the same *LoadError.
func (l *Loader) Load() (*Bundle, error) {
	l.once.Do(func() {
		l.bundle, l.err = load(l.paths, l.readFile)
		if l.err != nil {
			l.logger.Error("Failed to load artifacts", zap.Error(l.err))
			return
		}
		l.logger.Info("Artifacts loaded",
			zap.String("vectorizer", l.bundle.Vectorizer.Name()),
			zap.Int("dimension", l.bundle.Vectorizer.Dimension()),
			zap.String("classifier", l.bundle.Classifier.Name()),
			zap.Bool("confidence", l.bundle.HasConfidence()),
		)
		if w, ok := l.bundle.Classifier.(widthReporter); ok && w.Width() != l.bundle.Vectorizer.Dimension() {
			l.logger.Warn("Classifier width differs from vectorizer dimension; predictions will fail",
				zap.Int("dimension", l.bundle.Vectorizer.Dimension()),
				zap.Int("classifier_width", w.Width()),
			)
		}
	})
	return l.bundle, l.err
}

// LoadFiles reads both artifacts without caching.
func LoadFiles(paths Paths) (*Bundle, error) {
	return load(paths, os.ReadFile)
}

func load(paths Paths, readFile func(string) ([]byte, error)) (*Bundle, error) {
	vec, err := loadVectorizer(paths.Vectorizer, readFile)
	if err != nil {
		return nil, err
	}
	clf, err := loadClassifier(paths.Classifier, readFile)
	if err != nil {
		return nil, err
	}
	b := NewBundle(vec, clf)
	b.Paths = paths
	return b, nil
}

func loadVectorizer(path string, readFile func(string) ([]byte, error)) (domain.Vectorizer, error) {
	data, kind, lerr := readEnvelope(ArtifactVectorizer, path, readFile)
	if lerr != nil {
		return nil, lerr
	}
	corrupt := func(err error) error {
		return &LoadError{Artifact: ArtifactVectorizer, Path: path, Reason: ReasonCorrupt, Err: err}
	}
	switch kind {
	case tfidf.Kind:
		var spec tfidf.Spec
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, corrupt(err)
		}
		v, err := tfidf.New(spec)
		if err != nil {
			return nil, corrupt(err)
		}
		return v, nil
	default:
		return nil, corrupt(fmt.Errorf("unsupported vectorizer kind %q", kind))
	}
}

func loadClassifier(path string, readFile func(string) ([]byte, error)) (domain.Classifier, error) {
	data, kind, lerr := readEnvelope(ArtifactClassifier, path, readFile)
	if lerr != nil {
		return nil, lerr
	}
	corrupt := func(err error) error {
		return &LoadError{Artifact: ArtifactClassifier, Path: path, Reason: ReasonCorrupt, Err: err}
	}
	var (
		clf domain.Classifier
		err error
	)
	switch kind {
	case linear.KindLogisticRegression, linear.KindLinearSVC:
		var spec linear.Spec
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, corrupt(err)
		}
		if kind == linear.KindLogisticRegression {
			clf, err = linear.NewLogisticRegression(spec)
		} else {
			clf, err = linear.NewLinearSVC(spec)
		}
	case naivebayes.Kind:
		var spec naivebayes.Spec
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, corrupt(err)
		}
		clf, err = naivebayes.New(spec)
	default:
		err = fmt.Errorf("unsupported classifier kind %q", kind)
	}
	if err != nil {
		return nil, corrupt(err)
	}
	return clf, nil
}

func readEnvelope(artifact Artifact, path string, readFile func(string) ([]byte, error)) ([]byte, string, *LoadError) {
	data, err := readFile(path)
	if err != nil {
		reason := ReasonUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			reason = ReasonMissing
		}
		return nil, "", &LoadError{Artifact: artifact, Path: path, Reason: reason, Err: err}
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, "", &LoadError{Artifact: artifact, Path: path, Reason: ReasonCorrupt, Err: err}
	}
	if env.Format != FormatV1 {
		return nil, "", &LoadError{
			Artifact: artifact,
			Path:     path,
			Reason:   ReasonVersionMismatch,
			Err:      fmt.Errorf("format %q, want %q", env.Format, FormatV1),
		}
	}
	return data, env.Kind, nil
}
