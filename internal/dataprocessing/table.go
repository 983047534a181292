package dataprocessing

import (
	"strings"
	"unicode"
)

// RawTable is the untyped cell grid a workbook sheet reduces to:
// ordered rows of ordered cell strings, exactly as excelize's GetRows
// returns them. Rows may be ragged; trailing empty cells are commonly
// absent.
type RawTable [][]string

// rowText concatenates the non-empty cells of a row into one
// lowercased, whitespace-free string for keyword matching.
func rowText(row []string) string {
	var b strings.Builder
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		b.WriteString(cell)
	}
	return normalizeHeaderText(b.String())
}

// normalizeHeaderText lowercases and removes all whitespace (including
// full-width spaces) from header cell text, so "證 券 代 號" and
// "Security Code" match their keyword candidates regardless of the
// document's spacing habits.
func normalizeHeaderText(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// previewRows renders the first n rows of a table as pipe-joined
// strings for error diagnostics.
func previewRows(table RawTable, n int) []string {
	if n > len(table) {
		n = len(table)
	}
	preview := make([]string, 0, n)
	for _, row := range table[:n] {
		preview = append(preview, strings.Join(row, " | "))
	}
	return preview
}
