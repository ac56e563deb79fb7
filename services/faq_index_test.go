package services

import (
	"context"
	"errors"
	"testing"

	"github/itish2003/hrfaq/models"
)

func TestBuildIndexEmbedsRawQuestionsInOrder(t *testing.T) {
	emb := &fakeEmbedder{name: "fake", vectors: map[string][]float32{
		"Quand suis-je payé ?": {1, 0},
		"Où est la cantine ?":  {0, 1},
	}}
	entries := []models.FAQEntry{
		models.NewFAQEntry("Quand suis-je payé ?", "Le 28."),
		models.NewFAQEntry("Où est la cantine ?", "Au rez-de-chaussée."),
	}
	idx, err := BuildIndex(context.Background(), "faq.xlsx", entries, emb)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if idx.Len() != 2 || idx.Dimension() != 2 || idx.Model() != "fake" {
		t.Fatalf("unexpected index: len=%d dim=%d model=%s", idx.Len(), idx.Dimension(), idx.Model())
	}
	if emb.calls[0] != "Quand suis-je payé ?" || emb.calls[1] != "Où est la cantine ?" {
		t.Fatalf("questions should be embedded raw and in order, got %q", emb.calls)
	}
	if idx.Embedding(1)[1] != 1 {
		t.Fatalf("embedding order not preserved: %v", idx.Embedding(1))
	}

	// The index owns its entries.
	entries[0].Question = "changed"
	if idx.Entry(0).Question != "Quand suis-je payé ?" {
		t.Fatal("index shares its entry slice with the caller")
	}
}

func TestBuildIndexFailures(t *testing.T) {
	entries := []models.FAQEntry{models.NewFAQEntry("a", "x"), models.NewFAQEntry("b", "y")}
	cases := []struct {
		name    string
		entries []models.FAQEntry
		emb     *fakeEmbedder
	}{
		{"no entries", nil, &fakeEmbedder{name: "fake"}},
		{"embedder error", entries, &fakeEmbedder{name: "fake", err: errors.New("boom")}},
		{"dimension mismatch", entries, &fakeEmbedder{name: "fake", vectors: map[string][]float32{"a": {1, 0}, "b": {1}}}},
		{"empty vectors", entries, &fakeEmbedder{name: "fake"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := BuildIndex(context.Background(), "faq", c.entries, c.emb)
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
		})
	}
}

func TestIndexHolderSwap(t *testing.T) {
	first, _ := buildTestIndex(t, []models.FAQEntry{models.NewFAQEntry("congés payés", "25 jours")})
	second, _ := buildTestIndex(t, []models.FAQEntry{models.NewFAQEntry("mutuelle", "Oui"), models.NewFAQEntry("tickets restaurant", "Oui")})

	h := NewIndexHolder(first)
	if h.Load() != first {
		t.Fatal("expected first index")
	}
	h.Store(second)
	if h.Load().Len() != 2 {
		t.Fatalf("expected swapped index, got %d entries", h.Load().Len())
	}
}
