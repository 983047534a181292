package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: everything is
// resolved relative to the executable directory, never the current
// working directory, so runs behave identically from cron and a shell.
type Paths struct {
	ExecutableDir string
	DataDir       string
	DownloadsDir  string
	SnapshotsDir  string
	ReportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable
// location.
//
// Directory structure:
//
//	data/
//	  ├── downloads/   (raw workbook exports from the scraper)
//	  ├── snapshots/   (canonical holdings_YYYYMMDD.csv files)
//	  └── reports/     (diff CSVs and rendered reports)
//	logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return PathsIn(filepath.Dir(exe)), nil
}

// PathsIn builds the path set rooted at the given directory. Split out
// from GetPaths so tests can point the layout at a temp dir.
func PathsIn(root string) *Paths {
	dataDir := filepath.Join(root, "data")
	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		DownloadsDir:  filepath.Join(dataDir, "downloads"),
		SnapshotsDir:  filepath.Join(dataDir, "snapshots"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(root, "logs"),
	}
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.DownloadsDir,
		p.SnapshotsDir,
		p.ReportsDir,
		p.LogsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDownloadPath returns the full path for a downloaded workbook
func (p *Paths) GetDownloadPath(filename string) string {
	return filepath.Join(p.DownloadsDir, filename)
}

// GetSnapshotPath returns the full path for a snapshot CSV keyed by
// its canonical date string.
func (p *Paths) GetSnapshotPath(dateKey string) string {
	return filepath.Join(p.SnapshotsDir, fmt.Sprintf("holdings_%s.csv", dateKey))
}

// GetReportPath returns the full path for a generated report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// DownloadFilename names a raw export on disk by fund code and
// download date, e.g. 00981A_20260109.xlsx.
func DownloadFilename(fundCode string, date time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", fundCode, date.Format("20060102"))
}
