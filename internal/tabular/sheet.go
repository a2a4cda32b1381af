// Package tabular infers column roles in spreadsheet data and extracts
// typed rows from it. Everything here is pure and independent of the
// spreadsheet parsing library, so it is unit-testable without real files.
package tabular

// Sheet is one named table of raw string cells, as produced by the
// content extractor. Row 0 may or may not be a header.
type Sheet struct {
	Name string
	Rows [][]string
}

func (s Sheet) empty() bool {
	return len(s.Rows) == 0
}

// cell returns the trimmed cell at (row, col), or "" when the row is
// ragged and the column is missing.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return trim(row[col])
}
