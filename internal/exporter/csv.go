package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"etfcli/pkg/contracts/domain"
)

// Canonical column sets for persisted snapshots and diffs. These are
// an interop contract: exactly these columns, in this order.
var (
	SnapshotHeader = []string{"identifier", "label", "quantity"}
	DiffHeader     = []string{"identifier", "label", "prev_quantity", "curr_quantity", "delta", "status"}
)

// CSVWriter provides CSV export functionality
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM so Excel renders Chinese labels correctly
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteSnapshot writes a snapshot in the canonical three-column form,
// preserving the snapshot's own ordering (quantity descending,
// identifier ascending).
func (w *CSVWriter) WriteSnapshot(filePath string, snapshot *domain.Snapshot) error {
	records := make([][]string, 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		records = append(records, []string{h.Identifier, h.Label, formatInt(h.Quantity)})
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   SnapshotHeader,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteDiff writes diff entries in the canonical six-column form,
// preserving the differ's ordering (status rank, then delta
// descending).
func (w *CSVWriter) WriteDiff(filePath string, entries []domain.DiffEntry) error {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			e.Identifier,
			e.Label,
			formatInt(e.PrevQuantity),
			formatInt(e.CurrQuantity),
			formatInt(e.Delta),
			string(e.Status),
		})
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   DiffHeader,
		Records:   records,
		BOMPrefix: true,
	})
}
