package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"smsclassifier/internal/domain"
)

// Kind is the artifact kind handled by this package.
const Kind = "tfidf"

// DefaultTokenPattern matches runs of letters with inner apostrophes.
const DefaultTokenPattern = `\p{L}+(?:['’]\p{L}+)*`

const (
	NormL2   = "l2"
	NormNone = "none"
)

// Spec is the serialized form of a fitted vectorizer.
// A nil StopWords selects the built-in English list; an empty one disables stop words.
type Spec struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	StopWords    []string       `json:"stop_words"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty"`
	Norm         string         `json:"norm,omitempty"`
}

// Vectorizer implements a TF-IDF transform over a fixed vocabulary.
// It is immutable after construction and safe for concurrent use.
type Vectorizer struct {
	tokenizer
	vocabulary  map[string]int
	idf         []float64
	dimension   int
	sublinearTF bool
	norm        string
}

type tokenizer struct {
	pattern   *regexp.Regexp
	stopwords map[string]struct{}
}

func newTokenizer(pattern string, stopWords []string) (tokenizer, error) {
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return tokenizer{}, fmt.Errorf("tfidf: token pattern: %w", err)
	}
	if stopWords == nil {
		stopWords = DefaultStopWords()
	}
	return tokenizer{pattern: re, stopwords: toSet(stopWords)}, nil
}

func resolveNorm(norm string) (string, error) {
	switch norm {
	case "":
		return NormL2, nil
	case NormL2, NormNone:
		return norm, nil
	default:
		return "", fmt.Errorf("tfidf: unsupported norm %q", norm)
	}
}

var _ domain.Vectorizer = (*Vectorizer)(nil)

// New builds a vectorizer from a fitted spec, validating its shape.
func New(spec Spec) (*Vectorizer, error) {
	if len(spec.Vocabulary) == 0 {
		return nil, errors.New("tfidf: empty vocabulary")
	}
	if len(spec.IDF) != len(spec.Vocabulary) {
		return nil, fmt.Errorf("tfidf: %d idf values for %d vocabulary terms", len(spec.IDF), len(spec.Vocabulary))
	}
	seen := make([]bool, len(spec.IDF))
	for term, idx := range spec.Vocabulary {
		if idx < 0 || idx >= len(spec.IDF) {
			return nil, fmt.Errorf("tfidf: term %q has column %d outside [0,%d)", term, idx, len(spec.IDF))
		}
		if seen[idx] {
			return nil, fmt.Errorf("tfidf: column %d assigned twice", idx)
		}
		seen[idx] = true
	}
	tok, err := newTokenizer(spec.TokenPattern, spec.StopWords)
	if err != nil {
		return nil, err
	}
	norm, err := resolveNorm(spec.Norm)
	if err != nil {
		return nil, err
	}
	vocab := make(map[string]int, len(spec.Vocabulary))
	for term, idx := range spec.Vocabulary {
		vocab[term] = idx
	}
	return &Vectorizer{
		tokenizer:   tok,
		vocabulary:  vocab,
		idf:         append([]float64(nil), spec.IDF...),
		dimension:   len(spec.IDF),
		sublinearTF: spec.SublinearTF,
		norm:        norm,
	}, nil
}

// Name returns the artifact kind.
func (v *Vectorizer) Name() string { return Kind }

// Dimension returns the width of produced vectors.
func (v *Vectorizer) Dimension() int { return v.dimension }

// Transform computes the TF-IDF vector for a single text.
// Texts without known terms yield a zero vector.
func (v *Vectorizer) Transform(text string) (domain.Vector, error) {
	vec := make(domain.Vector, v.dimension)
	tf := make(map[int]int)
	for _, tok := range v.tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		w := float64(count)
		if v.sublinearTF {
			w = 1 + math.Log(w)
		}
		vec[idx] = w * v.idf[idx]
	}
	if v.norm == NormL2 {
		norm := 0.0
		for _, x := range vec {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for i := range vec {
				vec[i] /= norm
			}
		}
	}
	return vec, nil
}

func (t tokenizer) tokenize(text string) []string {
	raw := t.pattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, w := range raw {
		if _, isStop := t.stopwords[w]; isStop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// DefaultStopWords returns the built-in English stop word list.
func DefaultStopWords() []string {
	return []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
}
