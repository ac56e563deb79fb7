package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github/itish2003/hrfaq/models"
)

const (
	defaultQuestionColumn = 3
	defaultAnswerColumn   = 4
)

// FAQSourceOptions controls how question and answer columns are located.
// When both header names are set, columns are looked up by header instead of
// by position and a missing header is an error.
type FAQSourceOptions struct {
	QuestionHeader string
	AnswerHeader   string
}

func (o FAQSourceOptions) byHeader() bool {
	return o.QuestionHeader != "" && o.AnswerHeader != ""
}

// LoadFAQ reads the question/answer table at path (.xlsx or .csv).
func LoadFAQ(path string, opts FAQSourceOptions) ([]models.FAQEntry, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	entries, err := entriesFromRows(rows, opts)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	log.Printf("INDEXER: Loaded %d FAQ entries from %s", len(entries), path)
	return entries, nil
}

func readTable(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		return f.GetRows(sheets[0])
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSV(f)
	default:
		return nil, fmt.Errorf("unsupported faq source type: %s", ext)
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func entriesFromRows(rows [][]string, opts FAQSourceOptions) ([]models.FAQEntry, error) {
	if len(rows) == 0 {
		return nil, errors.New("table is empty")
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	qCol, aCol, err := resolveColumns(header, opts)
	if err != nil {
		return nil, err
	}

	// Duplicate questions keep their first position but take the last answer.
	var entries []models.FAQEntry
	position := make(map[string]int)
	for _, row := range rows[1:] {
		question := cell(row, qCol)
		if strings.TrimSpace(question) == "" {
			continue
		}
		entry := models.NewFAQEntry(question, cell(row, aCol))
		if i, ok := position[question]; ok {
			entries[i] = entry
			continue
		}
		position[question] = len(entries)
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, errors.New("no questions found")
	}
	return entries, nil
}

func resolveColumns(header []string, opts FAQSourceOptions) (int, int, error) {
	if !opts.byHeader() {
		if len(header) <= defaultAnswerColumn {
			return 0, 0, fmt.Errorf("expected at least %d columns, found %d", defaultAnswerColumn+1, len(header))
		}
		return defaultQuestionColumn, defaultAnswerColumn, nil
	}
	qCol, aCol := -1, -1
	for i, h := range header {
		switch {
		case strings.EqualFold(h, strings.TrimSpace(opts.QuestionHeader)):
			qCol = i
		case strings.EqualFold(h, strings.TrimSpace(opts.AnswerHeader)):
			aCol = i
		}
	}
	if qCol < 0 {
		return 0, 0, fmt.Errorf("question column %q not found in header %v", opts.QuestionHeader, header)
	}
	if aCol < 0 {
		return 0, 0, fmt.Errorf("answer column %q not found in header %v", opts.AnswerHeader, header)
	}
	return qCol, aCol, nil
}

// cell returns row[i], or "" for short rows (excelize trims trailing empty cells).
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
