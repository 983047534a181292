package dataprocessing

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	apperrors "etfcli/internal/errors"
	"etfcli/pkg/contracts/domain"
)

// totalMarkers flag summary rows injected by the source document.
// Any identifier containing one of these is a subtotal line, not a
// holding, regardless of its quantity.
var totalMarkers = []string{"合計", "小計", "總計", "total", "subtotal"}

// identifierShape is the loose token-shape check guarding against
// footnote and legend rows that slip past the total-marker filter.
var identifierShape = regexp.MustCompile(`^[A-Za-z0-9.\-]+$`)

// Normalize cleans, validates and aggregates the rows below headerRow
// into canonical Holding records:
//
//  1. rows strictly below the header are projected through columns,
//  2. identifiers are trimmed; empty, subtotal-marked or ill-shaped
//     identifiers drop the row,
//  3. quantities parse as decimals with thousands separators removed,
//     truncate to integers, and clamp negative or unparsable values
//     to 0 (malformed quantity cells are common and never abort a run),
//  4. rows are grouped by (identifier, label) and quantities summed,
//     since the document can split one holding across multiple rows,
//  5. the result sorts by quantity descending, identifier ascending.
//
// Returns EmptyHoldings when nothing survives: an empty snapshot is
// almost certainly a parsing failure and must not overwrite a good
// prior snapshot.
func Normalize(table RawTable, headerRow int, columns ColumnMap) ([]domain.Holding, error) {
	if headerRow < 0 || headerRow >= len(table) {
		return nil, apperrors.NewEmptyHoldingsError(0, 0)
	}

	dataRows := table[headerRow+1:]
	idCol := columns[FieldIdentifier]
	qtyCol := columns[FieldQuantity]
	labelCol, hasLabel := columns[FieldLabel]

	type groupKey struct {
		identifier string
		label      string
	}
	sums := make(map[groupKey]int64)
	order := make([]groupKey, 0, len(dataRows))

	dropped := 0
	for _, row := range dataRows {
		identifier := strings.TrimSpace(cellAt(row, idCol))
		if identifier == "" {
			dropped++
			continue
		}
		if containsTotalMarker(identifier) {
			dropped++
			continue
		}
		if !identifierShape.MatchString(identifier) {
			dropped++
			continue
		}

		label := ""
		if hasLabel {
			label = strings.TrimSpace(cellAt(row, labelCol))
		}

		quantity := parseQuantity(cellAt(row, qtyCol))

		key := groupKey{identifier: identifier, label: label}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += quantity
	}

	if len(sums) == 0 {
		return nil, apperrors.NewEmptyHoldingsError(len(dataRows), dropped)
	}

	holdings := make([]domain.Holding, 0, len(sums))
	for _, key := range order {
		holdings = append(holdings, domain.Holding{
			Identifier: key.identifier,
			Label:      key.label,
			Quantity:   sums[key],
		})
	}

	SortHoldings(holdings)
	return holdings, nil
}

// SortHoldings orders holdings by quantity descending, ties broken by
// identifier ascending (then label, for the rare identifier whose
// label changed mid-document).
func SortHoldings(holdings []domain.Holding) {
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].Quantity != holdings[j].Quantity {
			return holdings[i].Quantity > holdings[j].Quantity
		}
		if holdings[i].Identifier != holdings[j].Identifier {
			return holdings[i].Identifier < holdings[j].Identifier
		}
		return holdings[i].Label < holdings[j].Label
	})
}

// parseQuantity parses a raw quantity cell into a non-negative share
// count. Thousands separators and whitespace are stripped, the value
// parses as a decimal, fractions truncate toward zero, and anything
// negative or unparsable coerces to 0.
func parseQuantity(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.Map(func(r rune) rune {
		if r == ',' || r == '，' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	if d.IsNegative() {
		return 0
	}
	return d.IntPart()
}

func containsTotalMarker(identifier string) bool {
	lowered := strings.ToLower(identifier)
	for _, marker := range totalMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// cellAt returns the cell at idx or "" when the ragged row is too
// short.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
