package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// TFIDFEmbedder is an offline embedder whose vocabulary and IDF weights come
// from the FAQ questions themselves. Useful without network access.
// Prepare returns a fitted copy, so an instance never changes once fitted
// and each index keeps the vocabulary it was built with.
type TFIDFEmbedder struct {
	vocabulary   map[string]int
	idf          []float64
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewTFIDFEmbedder creates an unprepared TF-IDF embedder.
func NewTFIDFEmbedder() *TFIDFEmbedder {
	return &TFIDFEmbedder{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
		stopwords:    defaultStopwords(),
	}
}

func (e *TFIDFEmbedder) Name() string { return "tfidf" }

// Prepare returns an embedder fitted on corpus with its vocabulary and
// smoothed IDF values.
func (e *TFIDFEmbedder) Prepare(corpus []string) (Embedder, error) {
	if len(corpus) == 0 {
		return nil, errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, errors.New("no tokens found in corpus")
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	return &TFIDFEmbedder{
		vocabulary:   vocabulary,
		idf:          idf,
		prepared:     true,
		tokenPattern: e.tokenPattern,
		stopwords:    e.stopwords,
	}, nil
}

// Dimension returns the vocabulary size, 0 before fitting.
func (e *TFIDFEmbedder) Dimension() int { return len(e.idf) }

// Embed returns the L2-normalized TF-IDF vector of text. Text with no known
// tokens yields a zero vector.
func (e *TFIDFEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	vec := make([]float32, len(e.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	norm := 0.0
	weights := make(map[int]float64, len(tf))
	for idx, count := range tf {
		w := float64(count) / float64(total) * e.idf[idx]
		weights[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for idx, w := range weights {
		vec[idx] = float32(w / norm)
	}
	return vec, nil
}

func (e *TFIDFEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedSequentially(ctx, e, texts)
}

func (e *TFIDFEmbedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		// english
		"a", "an", "the", "and", "or", "but", "if", "for", "to", "of", "in", "on", "at", "by", "with",
		"as", "is", "are", "was", "were", "be", "it", "this", "that", "from", "so", "can", "do", "does",
		// french
		"le", "la", "les", "un", "une", "des", "du", "de", "d", "l", "et", "ou", "à", "au", "aux",
		"en", "est", "sont", "pour", "par", "sur", "dans", "que", "qui", "ce", "se", "ne", "pas",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
