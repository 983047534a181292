package exporter

import (
	"fmt"
)

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatSigned formats a delta with an explicit sign for report
// output, so +50 and -50 read unambiguously in a column of changes.
func formatSigned(i int64) string {
	if i > 0 {
		return fmt.Sprintf("+%d", i)
	}
	return fmt.Sprintf("%d", i)
}
