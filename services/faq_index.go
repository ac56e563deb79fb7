package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github/itish2003/hrfaq/models"
)

// FAQIndex is the FAQ table together with one embedding per question, in
// the same order. It is never modified after BuildIndex returns, so it can be
// shared by every session without locking.
type FAQIndex struct {
	entries    []models.FAQEntry
	embeddings [][]float32
	// queries is set when the index was built by a fitted embedder that
	// must also embed the queries.
	queries    Embedder
	model      string
	source     string
	builtAt    time.Time
}

// BuildIndex embeds every raw question with embedder. This is the one-time,
// potentially slow initialization step; any failure is a LoadError.
func BuildIndex(ctx context.Context, source string, entries []models.FAQEntry, embedder Embedder) (*FAQIndex, error) {
	if len(entries) == 0 {
		return nil, &LoadError{Source: source, Err: errors.New("no faq entries to index")}
	}
	start := time.Now()

	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}
	model := embedder.Name()
	var queries Embedder
	if p, ok := embedder.(Preparer); ok {
		fitted, err := p.Prepare(questions)
		if err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("preparing embedder: %w", err)}
		}
		embedder, queries = fitted, fitted
	}

	vectors, err := embedder.EmbedBatch(ctx, questions)
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("embedding faq questions: %w", err)}
	}
	if len(vectors) != len(entries) {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("got %d embeddings for %d questions", len(vectors), len(entries))}
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(v), dim)}
		}
	}

	idx := &FAQIndex{
		entries:    append([]models.FAQEntry(nil), entries...),
		embeddings: vectors,
		queries:    queries,
		model:      model,
		source:     source,
		builtAt:    time.Now(),
	}
	log.Printf("INDEXER: Embedded %d FAQ questions with %s (dim=%d) in %s", len(entries), idx.model, dim, time.Since(start).Round(time.Millisecond))
	return idx, nil
}

// Len returns the number of entries.
func (x *FAQIndex) Len() int { return len(x.entries) }

// Entry returns the i-th entry.
func (x *FAQIndex) Entry(i int) models.FAQEntry { return x.entries[i] }

// Embedding returns the vector of the i-th question. Callers must not modify it.
func (x *FAQIndex) Embedding(i int) []float32 { return x.embeddings[i] }

// QueryEmbedder returns the embedder to use for queries against this index,
// or fallback when the index needs no fitted embedder.
func (x *FAQIndex) QueryEmbedder(fallback Embedder) Embedder {
	if x.queries != nil {
		return x.queries
	}
	return fallback
}

// Model is the identity of the embedder that built the index.
func (x *FAQIndex) Model() string { return x.model }

// Dimension is the length of every embedding in the index.
func (x *FAQIndex) Dimension() int {
	if len(x.embeddings) == 0 {
		return 0
	}
	return len(x.embeddings[0])
}

func (x *FAQIndex) Info() models.FAQInfo {
	return models.FAQInfo{Count: x.Len(), Model: x.model, BuiltAt: x.builtAt, Source: x.source}
}

// IndexHolder hands out the current index. Reloads swap in a fully built
// index; readers never observe a partial one.
type IndexHolder struct {
	current atomic.Pointer[FAQIndex]
}

func NewIndexHolder(idx *FAQIndex) *IndexHolder {
	h := &IndexHolder{}
	h.current.Store(idx)
	return h
}

func (h *IndexHolder) Load() *FAQIndex { return h.current.Load() }

func (h *IndexHolder) Store(idx *FAQIndex) { h.current.Store(idx) }

// FAQLoader loads and indexes a FAQ source from scratch.
type FAQLoader struct {
	Path     string
	Options  FAQSourceOptions
	Embedder Embedder
}

// Build runs the full load-then-embed pipeline.
func (l *FAQLoader) Build(ctx context.Context) (*FAQIndex, error) {
	entries, err := LoadFAQ(l.Path, l.Options)
	if err != nil {
		return nil, err
	}
	return BuildIndex(ctx, l.Path, entries, l.Embedder)
}
