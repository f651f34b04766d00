package service

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"smsclassifier/internal/artifacts"
	"smsclassifier/internal/domain"
)

type MockVectorizer struct {
	mock.Mock
}

func (m *MockVectorizer) Name() string   { return "mock" }
func (m *MockVectorizer) Dimension() int { return 2 }

func (m *MockVectorizer) Transform(text string) (domain.Vector, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Vector), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Name() string                { return "mock" }
func (m *MockClassifier) Classes() []domain.RawLabel { return []domain.RawLabel{0, 1} }

func (m *MockClassifier) PredictLabel(features domain.Vector) (domain.RawLabel, error) {
	args := m.Called(features)
	return args.Get(0), args.Error(1)
}

type MockProbClassifier struct {
	MockClassifier
}

func (m *MockProbClassifier) PredictProba(features domain.Vector) ([]float64, error) {
	args := m.Called(features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

type panickingEstimator struct {
	MockClassifier
}

func (p *panickingEstimator) PredictProba(domain.Vector) ([]float64, error) {
	var rows [][]float64
	return rows[3], nil
}

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestClassifier(t *testing.T, v domain.Vectorizer, c domain.Classifier) *Classifier {
	t.Helper()
	svc, err := New(artifacts.NewBundle(v, c),
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "id-1" }),
	)
	require.NoError(t, err)
	return svc
}

func TestClassify_NormalizesBeforeTransform(t *testing.T) {
	vec := new(MockVectorizer)
	clf := new(MockClassifier)
	features := domain.Vector{1, 0}
	vec.On("Transform", "win money now").Return(features, nil)
	clf.On("PredictLabel", features).Return(1, nil)

	svc := newTestClassifier(t, vec, clf)
	res, err := svc.Classify("  WIN Money   NOW ")

	require.NoError(t, err)
	assert.Equal(t, domain.LabelSpam, res.Label)
	assert.Nil(t, res.Confidence)
	assert.Equal(t, "  WIN Money   NOW ", res.InputText)
	assert.Equal(t, fixedTime, res.Timestamp)
	assert.Equal(t, "id-1", res.ID)
	vec.AssertExpectations(t)
	clf.AssertExpectations(t)
}

func TestClassify_Confidence(t *testing.T) {
	features := domain.Vector{0, 1}

	t.Run("max class probability", func(t *testing.T) {
		vec := new(MockVectorizer)
		clf := new(MockProbClassifier)
		vec.On("Transform", "hello").Return(features, nil)
		clf.On("PredictLabel", features).Return("ham", nil)
		clf.On("PredictProba", features).Return([]float64{0.83, 0.17}, nil)

		res, err := newTestClassifier(t, vec, clf).Classify("hello")
		require.NoError(t, err)
		assert.Equal(t, domain.LabelHam, res.Label)
		require.NotNil(t, res.Confidence)
		assert.InDelta(t, 0.83, *res.Confidence, 1e-12)
	})

	t.Run("estimation error degrades to nil", func(t *testing.T) {
		vec := new(MockVectorizer)
		clf := new(MockProbClassifier)
		vec.On("Transform", "hello").Return(features, nil)
		clf.On("PredictLabel", features).Return("spam", nil)
		clf.On("PredictProba", features).Return(nil, errors.New("boom"))

		res, err := newTestClassifier(t, vec, clf).Classify("hello")
		require.NoError(t, err)
		assert.Equal(t, domain.LabelSpam, res.Label)
		assert.Nil(t, res.Confidence)
	})

	t.Run("out of range degrades to nil", func(t *testing.T) {
		for _, proba := range [][]float64{{1.2, -0.2}, {math.NaN(), 0.5}, {}} {
			vec := new(MockVectorizer)
			clf := new(MockProbClassifier)
			vec.On("Transform", "hello").Return(features, nil)
			clf.On("PredictLabel", features).Return(0, nil)
			clf.On("PredictProba", features).Return(proba, nil)

			res, err := newTestClassifier(t, vec, clf).Classify("hello")
			require.NoError(t, err)
			assert.Nil(t, res.Confidence)
		}
	})

	t.Run("panic degrades to nil", func(t *testing.T) {
		vec := new(MockVectorizer)
		clf := new(panickingEstimator)
		vec.On("Transform", "hello").Return(features, nil)
		clf.On("PredictLabel", features).Return(1, nil)

		res, err := newTestClassifier(t, vec, clf).Classify("hello")
		require.NoError(t, err)
		assert.Equal(t, domain.LabelSpam, res.Label)
		assert.Nil(t, res.Confidence)
	})
}

func TestClassify_Errors(t *testing.T) {
	t.Run("blank input", func(t *testing.T) {
		svc := newTestClassifier(t, new(MockVectorizer), new(MockClassifier))
		_, err := svc.Classify("   \n")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("transform failure", func(t *testing.T) {
		vec := new(MockVectorizer)
		vec.On("Transform", "hi").Return(nil, errors.New("bad vocabulary"))

		_, err := newTestClassifier(t, vec, new(MockClassifier)).Classify("hi")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPredict)
		var perr *PredictError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "transform", perr.Stage)
	})

	t.Run("predict failure", func(t *testing.T) {
		vec := new(MockVectorizer)
		clf := new(MockClassifier)
		features := domain.Vector{1}
		vec.On("Transform", "hi").Return(features, nil)
		clf.On("PredictLabel", features).Return(nil, errors.New("shape mismatch"))

		_, err := newTestClassifier(t, vec, clf).Classify("hi")
		var perr *PredictError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "predict", perr.Stage)
		assert.Contains(t, err.Error(), "shape mismatch")
	})
}

func TestNew_RequiresBundle(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, artifacts.ErrNotLoaded)
}

func fixtureBundle(t *testing.T, model string) *artifacts.Bundle {
	t.Helper()
	dir := filepath.Join("..", "artifacts", "testdata")
	b, err := artifacts.LoadFiles(artifacts.Paths{
		Vectorizer: filepath.Join(dir, "tfidf_vectorizer.json"),
		Classifier: filepath.Join(dir, model),
	})
	require.NoError(t, err)
	return b
}

func TestClassify_EndToEnd(t *testing.T) {
	for _, model := range []string{"spam_model.json", "spam_model_nb.json"} {
		t.Run(model, func(t *testing.T) {
			svc, err := New(fixtureBundle(t, model))
			require.NoError(t, err)

			spam, err := svc.Classify("WINNER!! claim your free prize now")
			require.NoError(t, err)
			assert.Equal(t, domain.LabelSpam, spam.Label)
			require.NotNil(t, spam.Confidence)
			assert.GreaterOrEqual(t, *spam.Confidence, 0.5)
			assert.NotEmpty(t, spam.ID)

			ham, err := svc.Classify("Hey, are we still meeting for lunch?")
			require.NoError(t, err)
			assert.Equal(t, domain.LabelHam, ham.Label)
		})
	}
}

func TestClassify_EndToEndWithoutConfidence(t *testing.T) {
	svc, err := New(fixtureBundle(t, "spam_model_svc.json"))
	require.NoError(t, err)
	assert.False(t, svc.Info().Confidence)

	res, err := svc.Classify("WINNER!! claim your free prize now")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelSpam, res.Label)
	assert.Nil(t, res.Confidence)
}

func TestClassify_ShapeMismatchIsPredictError(t *testing.T) {
	svc, err := New(fixtureBundle(t, "spam_model_wide.json"))
	require.NoError(t, err)

	_, err = svc.Classify("free prize")
	assert.ErrorIs(t, err, ErrPredict)

	// The artifacts stay usable for the next request.
	_, err = svc.Classify("lunch")
	assert.ErrorIs(t, err, ErrPredict)
}

func TestClassify_Concurrent(t *testing.T) {
	svc, err := New(fixtureBundle(t, "spam_model.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Classify("free cash prize")
			assert.NoError(t, err)
			assert.Equal(t, domain.LabelSpam, res.Label)
		}()
	}
	wg.Wait()
}

func TestClassifyBatch(t *testing.T) {
	svc, err := New(fixtureBundle(t, "spam_model.json"))
	require.NoError(t, err)

	items := svc.ClassifyBatch([]string{"free prize", " ", "call me at home"})
	require.Len(t, items, 3)
	assert.NoError(t, items[0].Err)
	assert.Equal(t, domain.LabelSpam, items[0].Result.Label)
	assert.ErrorIs(t, items[1].Err, ErrEmptyInput)
	assert.NoError(t, items[2].Err)
	assert.Equal(t, domain.LabelHam, items[2].Result.Label)
}

func TestInfo(t *testing.T) {
	svc, err := New(fixtureBundle(t, "spam_model_nb.json"))
	require.NoError(t, err)
	assert.Equal(t, ModelInfo{Vectorizer: "tfidf", Classifier: "multinomial_nb", Dimension: 10, Confidence: true}, svc.Info())
}
