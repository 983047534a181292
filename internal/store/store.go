package store

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"etfcli/internal/config"
	"etfcli/internal/dataprocessing"
	apperrors "etfcli/internal/errors"
	"etfcli/internal/exporter"
	"etfcli/pkg/contracts/domain"
)

// Store persists snapshots keyed by their canonical date and serves
// the most recent prior snapshot for diffing. Snapshot identity is
// the opaque date key, never a filesystem convention the core depends
// on.
type Store struct {
	paths  *config.Paths
	writer *exporter.CSVWriter
	logger *slog.Logger
}

// NewStore creates a snapshot store over the configured snapshots
// directory.
func NewStore(paths *config.Paths, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		paths:  paths,
		writer: exporter.NewCSVWriter(),
		logger: logger,
	}
}

var snapshotFilePattern = regexp.MustCompile(`^holdings_(\d{8})\.csv$`)

// Save persists the snapshot in the canonical three-column form.
// Saving the same date twice overwrites: reruns for a date supersede
// the earlier result.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	path := s.paths.GetSnapshotPath(snapshot.DateKey())

	s.logger.InfoContext(ctx, "persisting snapshot",
		slog.String("date", snapshot.DateKey()),
		slog.Int("holding_count", len(snapshot.Holdings)),
		slog.String("path", path))

	if err := s.writer.WriteSnapshot(path, snapshot); err != nil {
		return apperrors.NewStorageError("failed to write snapshot", err).
			WithContext("date", snapshot.DateKey())
	}
	return nil
}

// Load reads the snapshot stored under the given canonical date key.
func (s *Store) Load(ctx context.Context, dateKey string) (*domain.Snapshot, error) {
	date, err := time.Parse(domain.CanonicalDateFormat, dateKey)
	if err != nil {
		return nil, apperrors.NewStorageError("invalid snapshot date key", err).
			WithContext("date_key", dateKey)
	}
	return s.loadFile(ctx, s.paths.GetSnapshotPath(dateKey), date)
}

// Latest returns the most recent snapshot strictly before the given
// date, or (nil, nil) when none exists: the first run of a fund has
// no prior snapshot and that is not an error.
func (s *Store) Latest(ctx context.Context, before time.Time) (*domain.Snapshot, error) {
	entries, err := os.ReadDir(s.paths.SnapshotsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewStorageError("failed to read snapshots directory", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := snapshotFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if m[1] < before.Format(domain.CanonicalDateFormat) {
			keys = append(keys, m[1])
		}
	}
	if len(keys) == 0 {
		s.logger.InfoContext(ctx, "no prior snapshot found",
			slog.String("before", before.Format(domain.CanonicalDateFormat)))
		return nil, nil
	}

	sort.Strings(keys)
	latest := keys[len(keys)-1]

	s.logger.InfoContext(ctx, "loading prior snapshot",
		slog.String("date", latest))

	return s.Load(ctx, latest)
}

// loadFile parses a persisted snapshot through the same normalization
// pipeline the extraction uses: the canonical CSV is just a RawTable
// with its header at row 0, so a save/load cycle reproduces the
// holding set exactly.
func (s *Store) loadFile(ctx context.Context, path string, date time.Time) (*domain.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open snapshot file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read snapshot CSV", err).
			WithContext("path", path)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		// Strip the UTF-8 BOM the exporter writes for Excel.
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	table := dataprocessing.RawTable(rows)
	if len(table) == 0 {
		return nil, apperrors.NewStorageError("snapshot file is empty", nil).
			WithContext("path", path)
	}

	columns, err := dataprocessing.ResolveColumns(table[0])
	if err != nil {
		return nil, err
	}
	holdings, err := dataprocessing.Normalize(table, 0, columns)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "snapshot loaded",
		slog.String("path", filepath.Base(path)),
		slog.Int("holding_count", len(holdings)))

	return &domain.Snapshot{Date: date, Holdings: holdings}, nil
}
