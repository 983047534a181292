package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"etfcli/internal/config"
	"etfcli/internal/dataprocessing"
	"etfcli/internal/exporter"
	"etfcli/internal/infrastructure"
	"etfcli/internal/store"
	"etfcli/pkg/contracts/domain"
)

// workbookInfo holds one downloaded export discovered in the input
// directory.
type workbookInfo struct {
	Path string
	Date time.Time
}

func main() {
	inPath := flag.String("in", "", "workbook to process, or a directory of downloads (defaults to data/downloads relative to executable)")
	outDir := flag.String("out", "", "output directory for reports (defaults to data/reports relative to executable)")
	dateStr := flag.String("date", "", "override snapshot date (YYYYMMDD); used when the document carries no data date")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *inPath == "" {
		*inPath = paths.DownloadsDir
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithTraceID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	logger.Info("Starting holdings processing",
		slog.String("fund_code", cfg.Fund.Code),
		slog.String("input", *inPath),
		slog.String("output_dir", *outDir))

	workbookPath, err := resolveWorkbook(*inPath)
	if err != nil {
		logger.Error("No workbook to process", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Processing workbook", slog.String("path", workbookPath))

	extraction, err := dataprocessing.ParseWorkbook(ctx, workbookPath, cfg.Report.HeaderScanLimit)
	if err != nil {
		logger.Error("Extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	snapshotDate, err := resolveSnapshotDate(extraction, *dateStr)
	if err != nil {
		logger.Error("Invalid date override", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !extraction.DateFound {
		logger.Warn("Document carries no data date, using fallback",
			slog.String("snapshot_date", snapshotDate.Format(domain.CanonicalDateFormat)))
	}

	current := &domain.Snapshot{Date: snapshotDate, Holdings: extraction.Holdings}
	logger.Info("Snapshot extracted",
		slog.String("sheet_name", extraction.SheetName),
		slog.Int("header_row", extraction.HeaderRow),
		slog.Int("holding_count", len(current.Holdings)),
		slog.String("snapshot_date", current.DateKey()))

	snapshotStore := store.NewStore(paths, logger)

	previous, err := snapshotStore.Latest(ctx, snapshotDate)
	if err != nil {
		logger.Error("Failed to load prior snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	prevDateKey := "none"
	if previous != nil {
		prevDateKey = previous.DateKey()
	}

	entries := dataprocessing.Diff(previous, current)
	logger.Info("Diff computed",
		slog.String("prev_date", prevDateKey),
		slog.String("curr_date", current.DateKey()),
		slog.Int("entry_count", len(entries)))

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{
		TopN: cfg.Report.TopN,
	})
	report := summarizer.Summarize(ctx, prevDateKey, current.DateKey(), entries)

	writer := exporter.NewCSVWriter()

	diffCSVPath := filepath.Join(*outDir, fmt.Sprintf("diff_%s.csv", current.DateKey()))
	if err := writer.WriteDiff(diffCSVPath, entries); err != nil {
		logger.Error("Failed to write diff CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reportPath := filepath.Join(*outDir, fmt.Sprintf("report_%s.txt", current.DateKey()))
	if err := exporter.WriteReport(reportPath, report); err != nil {
		logger.Error("Failed to write report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Persist the snapshot last: a failed diff or report must not
	// advance the stored baseline.
	if err := snapshotStore.Save(ctx, current); err != nil {
		logger.Error("Failed to persist snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Processing complete",
		slog.String("diff_csv", diffCSVPath),
		slog.String("report", reportPath),
		slog.String("snapshot_date", current.DateKey()))

	fmt.Print(exporter.RenderReport(report))
}

// resolveWorkbook accepts either a workbook file or a downloads
// directory, in which case the newest .xlsx wins.
func resolveWorkbook(inPath string) (string, error) {
	info, err := os.Stat(inPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return inPath, nil
	}

	entries, err := os.ReadDir(inPath)
	if err != nil {
		return "", err
	}

	var workbooks []workbookInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		workbooks = append(workbooks, workbookInfo{
			Path: filepath.Join(inPath, name),
			Date: fi.ModTime(),
		})
	}
	if len(workbooks) == 0 {
		return "", fmt.Errorf("no .xlsx files in %s", inPath)
	}

	sort.Slice(workbooks, func(i, j int) bool {
		return workbooks[i].Date.Before(workbooks[j].Date)
	})
	return workbooks[len(workbooks)-1].Path, nil
}

// resolveSnapshotDate picks the snapshot date: an explicit override
// wins, then the document's own data date, then the processing date.
func resolveSnapshotDate(extraction *dataprocessing.Extraction, override string) (time.Time, error) {
	if override != "" {
		return time.Parse(domain.CanonicalDateFormat, override)
	}
	if extraction.DateFound {
		return extraction.DataDate, nil
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}
