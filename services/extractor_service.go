package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/xuri/excelize/v2"
)

// SupportedUploadExtensions lists the document types ExtractText understands.
var SupportedUploadExtensions = []string{".txt", ".pdf", ".xlsx"}

// ConfigurePDFLicense installs the UniDoc metered license needed for PDF
// extraction. An empty key leaves PDF extraction failing at use time.
func ConfigurePDFLicense(key string) error {
	if key == "" {
		return fmt.Errorf("no UniDoc license key provided, PDF uploads will not be readable")
	}
	return license.SetMeteredKey(key)
}

// IsSupportedUpload reports whether filename has an extension ExtractText reads.
func IsSupportedUpload(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedUploadExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ExtractText returns the plain text of an uploaded file. Unknown extensions
// yield "" without error; unreadable files yield an *ExtractionError.
func ExtractText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		text = strings.ToValidUTF8(string(data), "�")
	case ".pdf":
		text, err = extractTextFromPDF(data)
	case ".xlsx":
		text, err = extractTextFromXLSX(data)
	default:
		return "", nil
	}
	if err != nil {
		return "", &ExtractionError{Filename: filename, Err: err}
	}
	return text, nil
}

// extractTextFromPDF uses UniPDF to get the text of every page, in order.
func extractTextFromPDF(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", err
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

// extractTextFromXLSX renders the first sheet as an aligned plain-text table.
func extractTextFromXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
