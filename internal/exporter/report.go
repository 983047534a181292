package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"etfcli/pkg/contracts/domain"
)

// RenderReport renders a diff report as plain text. The structure of
// the report (grouping, ordering, top-N bounding) is decided by the
// summarizer; this function only lays it out.
func RenderReport(report *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Holdings diff %s -> %s\n", report.PrevDate, report.CurrDate)
	fmt.Fprintf(&b, "Entries: %d, generated %s\n", report.TotalDiffs, report.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, group := range report.Groups {
		b.WriteString("\n")
		if group.Total > len(group.Entries) {
			fmt.Fprintf(&b, "== %s (top %d of %d)\n", group.Status, len(group.Entries), group.Total)
		} else {
			fmt.Fprintf(&b, "== %s (%d)\n", group.Status, group.Total)
		}
		for _, e := range group.Entries {
			label := e.Label
			if label == "" {
				label = "-"
			}
			fmt.Fprintf(&b, "%-12s %-24s %12d -> %-12d %s\n",
				e.Identifier, label, e.PrevQuantity, e.CurrQuantity, formatSigned(e.Delta))
		}
	}

	return b.String()
}

// WriteReport renders the report and writes it to filePath.
func WriteReport(filePath string, report *domain.Report) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(filePath, []byte(RenderReport(report)), 0644)
}
