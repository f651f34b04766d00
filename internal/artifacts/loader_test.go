package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"smsclassifier/internal/model/linear"
	"smsclassifier/internal/model/naivebayes"
	"smsclassifier/internal/vectorizer/tfidf"
)

func fixturePaths(model string) Paths {
	return Paths{
		Vectorizer: filepath.Join("testdata", "tfidf_vectorizer.json"),
		Classifier: filepath.Join("testdata", model),
	}
}

func TestLoadFiles(t *testing.T) {
	tests := []struct {
		name       string
		model      string
		kind       string
		confidence bool
	}{
		{name: "logistic regression", model: "spam_model.json", kind: linear.KindLogisticRegression, confidence: true},
		{name: "linear svc", model: "spam_model_svc.json", kind: linear.KindLinearSVC, confidence: false},
		{name: "multinomial nb", model: "spam_model_nb.json", kind: naivebayes.Kind, confidence: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := LoadFiles(fixturePaths(tt.model))
			require.NoError(t, err)
			assert.Equal(t, tfidf.Kind, b.Vectorizer.Name())
			assert.Equal(t, 10, b.Vectorizer.Dimension())
			assert.Equal(t, tt.kind, b.Classifier.Name())
			assert.Equal(t, tt.confidence, b.HasConfidence())
		})
	}
}

func TestLoadFiles_Failures(t *testing.T) {
	tests := []struct {
		name     string
		paths    Paths
		artifact Artifact
		reason   Reason
	}{
		{
			name:     "missing vectorizer",
			paths:    Paths{Vectorizer: filepath.Join("testdata", "nope.json"), Classifier: filepath.Join("testdata", "spam_model.json")},
			artifact: ArtifactVectorizer,
			reason:   ReasonMissing,
		},
		{
			name:     "missing classifier",
			paths:    fixturePaths("nope.json"),
			artifact: ArtifactClassifier,
			reason:   ReasonMissing,
		},
		{
			name:     "corrupt classifier",
			paths:    fixturePaths("corrupt.json"),
			artifact: ArtifactClassifier,
			reason:   ReasonCorrupt,
		},
		{
			name:     "unknown classifier kind",
			paths:    fixturePaths("unknown_kind.json"),
			artifact: ArtifactClassifier,
			reason:   ReasonCorrupt,
		},
		{
			name:     "old format",
			paths:    fixturePaths("spam_model_v0.json"),
			artifact: ArtifactClassifier,
			reason:   ReasonVersionMismatch,
		},
		{
			name:     "vectorizer path is a directory",
			paths:    Paths{Vectorizer: "testdata", Classifier: filepath.Join("testdata", "spam_model.json")},
			artifact: ArtifactVectorizer,
			reason:   ReasonUnreadable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := LoadFiles(tt.paths)
			require.Error(t, err)
			assert.Nil(t, b)

			var lerr *LoadError
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, tt.artifact, lerr.Artifact)
			assert.Equal(t, tt.reason, lerr.Reason)
			assert.True(t, errors.Is(err, ErrNotLoaded))
			assert.Contains(t, err.Error(), string(tt.artifact))
		})
	}
}

func TestLoader_LoadsOnce(t *testing.T) {
	l := NewLoader(fixturePaths("spam_model.json"), nil)
	var mu sync.Mutex
	reads := 0
	l.readFile = func(path string) ([]byte, error) {
		mu.Lock()
		reads++
		mu.Unlock()
		return os.ReadFile(path)
	}

	var wg sync.WaitGroup
	bundles := make([]*Bundle, 8)
	for i := range bundles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := l.Load()
			assert.NoError(t, err)
			bundles[i] = b
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, reads)
	for _, b := range bundles[1:] {
		assert.Same(t, bundles[0], b)
	}
}

func TestLoader_FailureIsNotRetried(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Vectorizer: filepath.Join(dir, "tfidf_vectorizer.json"),
		Classifier: filepath.Join(dir, "spam_model.json"),
	}
	l := NewLoader(paths, nil)

	_, loadErr := l.Load()
	require.Error(t, loadErr)

	// Artifacts appearing later do not change the outcome for this loader.
	for src, dst := range map[string]string{
		"tfidf_vectorizer.json": paths.Vectorizer,
		"spam_model.json":       paths.Classifier,
	} {
		data, rerr := os.ReadFile(filepath.Join("testdata", src))
		require.NoError(t, rerr)
		require.NoError(t, os.WriteFile(dst, data, 0o644))
	}
	_, err := LoadFiles(paths)
	require.NoError(t, err, "a fresh load of the same paths succeeds")

	b, err2 := l.Load()
	assert.Nil(t, b)
	assert.Same(t, loadErr, err2)
}

func TestNewLoader_Defaults(t *testing.T) {
	l := NewLoader(Paths{}, nil)
	assert.Equal(t, DefaultPaths(), l.Paths())
}

func TestLoadFiles_WrittenSpecs(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Vectorizer: filepath.Join(dir, "nested", "vec.json"),
		Classifier: filepath.Join(dir, "model.json"),
	}
	writeArtifact(t, paths.Vectorizer, FormatV1, tfidf.Kind, tfidf.Spec{
		Vocabulary: map[string]int{"free": 0, "prize": 1, "lunch": 2},
		IDF:        []float64{1.2, 1.5, 1.9},
		StopWords:  []string{},
	})
	writeArtifact(t, paths.Classifier, FormatV1, linear.KindLinearSVC, linear.Spec{
		Classes:   []any{"ham", "spam"},
		Coef:      [][]float64{{1, 1, -1}},
		Intercept: []float64{0},
	})

	b, err := LoadFiles(paths)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Vectorizer.Dimension())
	assert.Equal(t, []any{"ham", "spam"}, b.Classifier.Classes())
	assert.False(t, b.HasConfidence())
	assert.Equal(t, paths, b.Paths)
}

func TestLoader_WarnsOnWidthMismatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := NewLoader(fixturePaths("spam_model_wide.json"), zap.New(core))

	_, err := l.Load()
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("width differs").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["classifier_width"])
	assert.Equal(t, int64(10), entries[0].ContextMap()["dimension"])
}

func TestLoadFiles_NewerFormatIsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	paths := fixturePaths("spam_model.json")
	paths.Vectorizer = filepath.Join(dir, "vec.json")
	writeArtifact(t, paths.Vectorizer, "smsclassifier/v2", tfidf.Kind, tfidf.Spec{
		Vocabulary: map[string]int{"free": 0},
		IDF:        []float64{1},
	})

	_, err := LoadFiles(paths)
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, ReasonVersionMismatch, lerr.Reason)
	assert.Equal(t, ArtifactVectorizer, lerr.Artifact)
}
