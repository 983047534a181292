package dataprocessing

import (
	"strings"

	apperrors "etfcli/internal/errors"
)

// Canonical field names of the holdings schema.
const (
	FieldIdentifier = "identifier"
	FieldLabel      = "label"
	FieldQuantity   = "quantity"
)

// fieldCandidates binds one canonical field to its header-text
// candidates in priority order: the first header cell whose
// normalized text contains a candidate substring wins the field.
// Candidate ordering encodes domain priority ("證券代號" before the
// generic "代號"), so adding a new header synonym is a data change,
// not a code change.
type fieldCandidates struct {
	field      string
	mandatory  bool
	candidates []string
}

// resolutionOrder is tried first-come-first-served: identifier, then
// label, then quantity. A column already bound to an earlier field is
// never bound again.
var resolutionOrder = []fieldCandidates{
	{
		field:     FieldIdentifier,
		mandatory: true,
		candidates: []string{
			"證券代號", "證券代碼", "股票代號", "股票代碼",
			"代號", "代碼", "securitycode", "stockcode", "identifier", "code",
		},
	},
	{
		field:     FieldLabel,
		mandatory: false,
		candidates: []string{
			"證券名稱", "股票名稱", "個股名稱",
			"名稱", "securityname", "stockname", "label", "name",
		},
	},
	{
		field:     FieldQuantity,
		mandatory: true,
		candidates: []string{
			"持有股數", "持股股數", "股數", "持股",
			"持有數量", "數量", "shares", "quantity", "units",
		},
	},
}

// ColumnMap binds canonical field names to source column indexes.
// identifier and quantity are always present; label may be absent,
// in which case every record gets an empty label.
type ColumnMap map[string]int

// HasLabel reports whether a label column was resolved.
func (m ColumnMap) HasLabel() bool {
	_, ok := m[FieldLabel]
	return ok
}

// ResolveColumns maps header cell text to the canonical field set.
// Matching is deterministic: fields resolve in a fixed order, each
// field tries its candidates in priority order, and the first header
// cell containing a candidate wins. Fails with MissingColumn naming
// the unresolved mandatory fields and listing every header cell seen.
func ResolveColumns(headerRow []string) (ColumnMap, error) {
	normalized := make([]string, len(headerRow))
	for i, cell := range headerRow {
		normalized[i] = normalizeHeaderText(cell)
	}

	columns := make(ColumnMap, len(resolutionOrder))
	taken := make(map[int]bool, len(resolutionOrder))

	for _, fc := range resolutionOrder {
		idx := matchColumn(normalized, fc.candidates, taken)
		if idx < 0 {
			continue
		}
		columns[fc.field] = idx
		taken[idx] = true
	}

	var missing []string
	for _, fc := range resolutionOrder {
		if !fc.mandatory {
			continue
		}
		if _, ok := columns[fc.field]; !ok {
			missing = append(missing, fc.field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingColumnError(missing, headerRow)
	}

	return columns, nil
}

// matchColumn returns the index of the first unbound header cell
// containing any candidate, honoring candidate priority over cell
// position.
func matchColumn(normalized []string, candidates []string, taken map[int]bool) int {
	for _, candidate := range candidates {
		for i, cell := range normalized {
			if taken[i] || cell == "" {
				continue
			}
			if strings.Contains(cell, candidate) {
				return i
			}
		}
	}
	return -1
}
