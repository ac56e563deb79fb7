package services

import (
	"context"
	"fmt"
)

// Embedder turns text into vectors. Name identifies the model; vectors from
// embedders with different names are not comparable.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Preparer is implemented by embedders that must see the corpus before
// they can embed anything. Prepare returns the fitted embedder to use for
// that corpus and its queries.
type Preparer interface {
	Prepare(corpus []string) (Embedder, error)
}

// embedSequentially is the EmbedBatch used by embedders whose API takes one
// text per request.
func embedSequentially(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
