package dataprocessing

import (
	"strings"

	apperrors "etfcli/internal/errors"
)

// Keyword families for header detection. A row is the header when it
// carries at least one identifier keyword and one quantity keyword;
// a row carrying all three families is preferred within the scan
// window. Keywords are matched against the row's normalized text, so
// they must be lowercase and whitespace-free.
var (
	identifierKeywords = []string{"證券代號", "證券代碼", "股票代號", "代號", "代碼", "identifier", "code"}
	labelKeywords      = []string{"證券名稱", "股票名稱", "名稱", "name"}
	quantityKeywords   = []string{"持有股數", "股數", "持股", "數量", "shares", "quantity", "units"}
)

// DefaultHeaderScanLimit bounds the header scan. The header always
// sits near the top of the document; scanning further risks matching
// footer or legend text.
const DefaultHeaderScanLimit = 20

// LocateHeader scans at most scanLimit rows for the real column
// header and returns its index. The first row containing an
// identifier keyword and a quantity keyword qualifies; if a later row
// inside the window additionally carries a label keyword before any
// two-family row is confirmed, the three-family row wins. Returns a
// HeaderNotFound error when the window is exhausted, because guessing
// a header would silently corrupt every downstream record.
func LocateHeader(table RawTable, scanLimit int) (int, error) {
	if scanLimit <= 0 {
		scanLimit = DefaultHeaderScanLimit
	}
	limit := scanLimit
	if limit > len(table) {
		limit = len(table)
	}

	firstQualifying := -1
	for i := 0; i < limit; i++ {
		text := rowText(table[i])
		if text == "" {
			continue
		}
		hasIdentifier := containsAny(text, identifierKeywords)
		hasQuantity := containsAny(text, quantityKeywords)
		if !hasIdentifier || !hasQuantity {
			continue
		}
		if containsAny(text, labelKeywords) {
			return i, nil
		}
		if firstQualifying < 0 {
			firstQualifying = i
		}
	}

	if firstQualifying >= 0 {
		return firstQualifying, nil
	}
	return -1, apperrors.NewHeaderNotFoundError(scanLimit, previewRows(table, 5))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
