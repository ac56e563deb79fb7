package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText("Policy.TXT", []byte("Remote work: 2 days.\nBadge required."))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Remote work: 2 days.\nBadge required." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractTextUnknownExtension(t *testing.T) {
	text, err := ExtractText("notes.docx", []byte("whatever"))
	if err != nil || text != "" {
		t.Fatalf("expected empty text without error, got %q, %v", text, err)
	}
	if IsSupportedUpload("notes.docx") || !IsSupportedUpload("report.PDF") {
		t.Fatal("unexpected IsSupportedUpload result")
	}
}

func TestExtractTextSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{{"Name", "Days"}, {"Alice", 25}, {"Bob", 22}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	text, err := ExtractText("leave.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", text)
	}
	if fields := strings.Fields(lines[1]); len(fields) != 2 || fields[0] != "Alice" || fields[1] != "25" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestExtractTextCorruptFiles(t *testing.T) {
	for _, name := range []string{"broken.pdf", "broken.xlsx"} {
		_, err := ExtractText(name, []byte("definitely not a document"))
		var exErr *ExtractionError
		if !errors.As(err, &exErr) {
			t.Fatalf("%s: expected *ExtractionError, got %v", name, err)
		}
		if exErr.Filename != name {
			t.Fatalf("unexpected filename %q", exErr.Filename)
		}
	}
}

func TestConfigurePDFLicenseRequiresKey(t *testing.T) {
	if err := ConfigurePDFLicense(""); err == nil {
		t.Fatal("expected an error for an empty key")
	}
}
