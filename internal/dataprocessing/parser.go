package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "etfcli/internal/errors"
	"etfcli/pkg/contracts/domain"
)

// Extraction is the result of parsing one holdings workbook.
type Extraction struct {
	Holdings  []domain.Holding
	SheetName string
	HeaderRow int
	// DataDate is the document's stated data date, valid only when
	// DateFound is true. Callers without a date fall back to the
	// processing date.
	DataDate  time.Time
	DateFound bool
}

// ParseWorkbook reads a fund holdings export and extracts the
// canonical holding set. It walks the workbook's sheets in order and
// uses the first one whose scan window contains a header row; the
// document is expected to carry a single meaningful data sheet.
//
// The rows above the header are additionally scanned for a Minguo
// data date ("民國115年01月09日" and variants); absence is not an
// error, DateFound is simply false.
func ParseWorkbook(ctx context.Context, path string, scanLimit int) (*Extraction, error) {
	logger := slog.Default()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	var firstErr error
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil || len(rows) == 0 {
			continue
		}
		table := RawTable(rows)

		headerRow, err := LocateHeader(table, scanLimit)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		logger.InfoContext(ctx, "found holdings data sheet",
			slog.String("sheet_name", sheetName),
			slog.Int("header_row", headerRow),
			slog.Int("total_rows", len(rows)))

		columns, err := ResolveColumns(table[headerRow])
		if err != nil {
			return nil, err
		}

		holdings, err := Normalize(table, headerRow, columns)
		if err != nil {
			return nil, err
		}

		extraction := &Extraction{
			Holdings:  holdings,
			SheetName: sheetName,
			HeaderRow: headerRow,
		}
		if date, ok := scanDataDate(table, headerRow); ok {
			extraction.DataDate = date
			extraction.DateFound = true
		} else {
			logger.WarnContext(ctx, "no data date found in document, caller falls back to processing date",
				slog.String("path", path))
		}

		logger.InfoContext(ctx, "workbook parsed",
			slog.String("sheet_name", sheetName),
			slog.Int("holding_count", len(holdings)),
			slog.Bool("date_found", extraction.DateFound))

		return extraction, nil
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return nil, apperrors.NewParsingError("workbook contains no readable sheets", nil).
		WithContext("path", path)
}

// scanDataDate looks for a Minguo date in the cells above the header
// row. The first parseable cell wins.
func scanDataDate(table RawTable, headerRow int) (time.Time, bool) {
	for _, row := range table[:headerRow] {
		for _, cell := range row {
			if date, ok := ParseROCDate(cell); ok {
				return date, true
			}
		}
	}
	return time.Time{}, false
}
