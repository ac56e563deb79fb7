package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"

	"github/itish2003/hrfaq/models"
)

// fakeEmbedder returns fixed vectors per text; unknown texts get fallbackVec.
type fakeEmbedder struct {
	name        string
	vectors     map[string][]float32
	fallbackVec []float32
	err         error
	calls       []string
}

func (f *fakeEmbedder) Name() string { return f.name }

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.fallbackVec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedSequentially(ctx, f, texts)
}

// fakeFallback records prompts and replies with answer, or fails the first
// failures calls.
type fakeFallback struct {
	mu       sync.Mutex
	answer   string
	failures int
	prompts  []string
}

func (f *fakeFallback) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.failures > 0 {
		f.failures--
		return "", errors.New("quota exceeded")
	}
	return f.answer, nil
}

func answer(s string) *string { return &s }

// writeFAQWorkbook writes rows to a fresh xlsx file and returns its path.
func writeFAQWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cellRef, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "faq.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// buildTestIndex indexes entries with a TF-IDF embedder.
func buildTestIndex(t *testing.T, entries []models.FAQEntry) (*FAQIndex, *TFIDFEmbedder) {
	t.Helper()
	emb := NewTFIDFEmbedder()
	idx, err := BuildIndex(context.Background(), "test", entries, emb)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return idx, emb
}
