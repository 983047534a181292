package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"etfcli/internal/config"
	"etfcli/internal/fetch"
	"etfcli/internal/infrastructure"
)

func main() {
	fundCode := flag.String("fund", "", "fund code to download; requires -export-code (defaults to configured fund)")
	exportCode := flag.String("export-code", "", "upstream export code for -fund")
	outDir := flag.String("out", "", "directory to save the export (defaults to data/downloads relative to executable)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *outDir == "" {
		*outDir = paths.DownloadsDir
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
	if err := applyFundOverride(cfg, *fundCode, *exportCode); err != nil {
		slog.Error("Invalid fund override", "error", err)
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

	logger.Info("Starting holdings export download",
		slog.String("fund_code", cfg.Fund.Code),
		slog.String("base_url", cfg.Fetch.BaseURL),
		slog.String("output_dir", *outDir))

	client, err := fetch.NewClient(cfg.Fetch, cfg.Fund, logger)
	if err != nil {
		logger.Error("Failed to create retrieval client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	workbook, err := client.FetchWorkbook(ctx)
	if err != nil {
		logger.Error("Download failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	filename := config.DownloadFilename(cfg.Fund.Code, time.Now())
	outPath := filepath.Join(*outDir, filename)

	if err := os.WriteFile(outPath, workbook, 0644); err != nil {
		logger.Error("Failed to save workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Export saved",
		slog.String("path", outPath),
		slog.Int("size_bytes", len(workbook)))
}

// applyFundOverride replaces the configured fund with the one given on
// the command line. The download URLs are built from the export code,
// so overriding the fund code alone would download the configured
// fund's export and misfile it under the requested code; both must be
// supplied together.
func applyFundOverride(cfg *config.Config, fundCode, exportCode string) error {
	if fundCode == "" && exportCode == "" {
		return nil
	}
	if fundCode == "" || exportCode == "" {
		return fmt.Errorf("-fund and -export-code must be set together")
	}
	cfg.Fund.Code = fundCode
	cfg.Fund.ExportCode = exportCode
	return nil
}
