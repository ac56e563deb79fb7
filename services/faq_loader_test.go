package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFAQFromXLSXUsesFixedColumns(t *testing.T) {
	path := writeFAQWorkbook(t, [][]interface{}{
		{" ID ", "Theme", "Sub theme", " Question ", " Réponse "},
		{1, "Leave", "Paid", "Quels sont les congés payés ?", ""},
		{2, "Pay", "Payslip", "Quand suis-je payé ?", "  Le 28 de chaque mois.  "},
		{3, "Pay", "Payslip", "Quand suis-je payé ?", "Le dernier jour ouvré."},
		{4, "Misc", "", "Puis-je télétravailler ?", "nan"},
		{5, "Misc", "", "", "orphan answer"},
	})

	entries, err := LoadFAQ(path, FAQSourceOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Question != "Quels sont les congés payés ?" || entries[0].HasAnswer() {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	// Duplicate keeps its first position and takes the last answer.
	if entries[1].Question != "Quand suis-je payé ?" || entries[1].AnswerText() != "Le dernier jour ouvré." {
		t.Fatalf("unexpected duplicate handling: %+v", entries[1])
	}
	if entries[2].HasAnswer() {
		t.Fatalf("expected 'nan' answer to be missing, got %q", *entries[2].Answer)
	}
}

func TestLoadFAQFromCSVByHeaderName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.csv")
	data := "Answer , Question\nUse the HR portal.,How do I request leave?\n,Who is my HR contact?\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := LoadFAQ(path, FAQSourceOptions{QuestionHeader: "question", AnswerHeader: "answer"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Question != "How do I request leave?" || entries[0].AnswerText() != "Use the HR portal." {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[1].HasAnswer() {
		t.Fatalf("expected missing answer for %q", entries[1].Question)
	}
}

func TestLoadFAQErrors(t *testing.T) {
	dir := t.TempDir()
	narrow := filepath.Join(dir, "narrow.csv")
	if err := os.WriteFile(narrow, []byte("a,b,c\n1,2,3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	headerless := filepath.Join(dir, "named.csv")
	if err := os.WriteFile(headerless, []byte("Question,Reply\nq,a\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	unsupported := filepath.Join(dir, "faq.json")
	if err := os.WriteFile(unsupported, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		name string
		path string
		opts FAQSourceOptions
	}{
		{"missing file", filepath.Join(dir, "absent.xlsx"), FAQSourceOptions{}},
		{"too few columns", narrow, FAQSourceOptions{}},
		{"missing answer header", headerless, FAQSourceOptions{QuestionHeader: "Question", AnswerHeader: "Answer"}},
		{"empty table", empty, FAQSourceOptions{}},
		{"unsupported type", unsupported, FAQSourceOptions{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadFAQ(c.path, c.opts)
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
		})
	}
}
