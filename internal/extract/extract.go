// Package extract routes a candidate file to a format-specific parser and
// returns normalized UTF-8 text, plus named sheets for tabular formats.
// Parser failures are recovered locally as empty output: the caller
// treats an empty extraction as "nothing to ingest", never as an error.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/tabular"
)

// SupportedExtensions maps the file extensions the pipeline accepts to
// their MIME types.
var SupportedExtensions = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".csv":  "text/csv",
}

// Result is a normalized extraction. Sheets is non-empty only for tabular
// formats and feeds the structured extractor.
type Result struct {
	Text   string
	Sheets []tabular.Sheet
}

// Extractor dispatches files to format-specific parsers.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract never returns an error: on parser failure the result is empty
// and the file is skipped upstream with a logged reason.
func (e *Extractor) Extract(path string) Result {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return e.extractExcel(path)
	case ".pdf":
		return Result{Text: Normalize(e.extractPDF(path))}
	case ".csv":
		return e.extractCSV(path)
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️ text read failed for %s: %v", path, err)
			return Result{}
		}
		return Result{Text: Normalize(string(raw))}
	default:
		return Result{}
	}
}

// extractExcel renders every sheet as a labeled text block so chunking
// and auditing can cite sheet boundaries, and keeps the raw grid for
// structured extraction.
func (e *Extractor) extractExcel(path string) Result {
	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Printf("⚠️ spreadsheet parse failed for %s: %v", path, err)
		return Result{}
	}
	defer f.Close()

	var (
		text   strings.Builder
		sheets []tabular.Sheet
	)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		text.WriteString(fmt.Sprintf("\n=== SHEET: %s ===\n", name))
		for _, row := range rows {
			text.WriteString(strings.Join(row, ","))
			text.WriteString("\n")
		}
		sheets = append(sheets, tabular.Sheet{Name: name, Rows: rows})
	}

	return Result{Text: Normalize(text.String()), Sheets: sheets}
}

func (e *Extractor) extractPDF(path string) string {
	f, r, err := pdf.Open(path)
	if err != nil {
		log.Printf("⚠️ pdf parse failed for %s: %v", path, err)
		return ""
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		log.Printf("⚠️ pdf text extraction failed for %s: %v", path, err)
		return ""
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return ""
	}
	return buf.String()
}

// extractCSV treats the file as a single sheet named after the file.
func (e *Extractor) extractCSV(path string) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ csv read failed for %s: %v", path, err)
		return Result{}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil || len(rows) == 0 {
		log.Printf("⚠️ csv parse failed for %s: %v", path, err)
		return Result{}
	}

	var text strings.Builder
	for _, row := range rows {
		text.WriteString(strings.Join(row, ","))
		text.WriteString("\n")
	}

	sheet := tabular.Sheet{Name: filepath.Base(path), Rows: rows}
	return Result{Text: Normalize(text.String()), Sheets: []tabular.Sheet{sheet}}
}
