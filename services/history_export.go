package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github/itish2003/hrfaq/models"
)

const (
	historySheet      = "Sheet1"
	timestampLayout   = "2006-01-02 15:04:05"
	historyFilePrefix = "chat_log_"
)

// ExportHistory writes messages to an xlsx file with the columns Role,
// Message and Timestamp, replacing any previous file at path.
func ExportHistory(path string, messages []models.ConversationMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(historySheet, "A1", &[]interface{}{"Role", "Message", "Timestamp"}); err != nil {
		return fmt.Errorf("writing history header: %w", err)
	}
	for i, m := range messages {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{string(m.Role), m.Content, m.Timestamp.Format(timestampLayout)}
		if err := f.SetSheetRow(historySheet, cellRef, &row); err != nil {
			return fmt.Errorf("writing history row %d: %w", i, err)
		}
	}

	// Write to a sibling temp file first so a download never sees half a file.
	tmp, err := os.CreateTemp(filepath.Dir(path), historyFilePrefix+"*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("saving history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// HistoryPath is where the conversation log of session id is exported.
func HistoryPath(dir, id string) string {
	return filepath.Join(dir, historyFilePrefix+id+".xlsx")
}
