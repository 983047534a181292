package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etfcli/internal/config"
	"etfcli/pkg/contracts/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	paths := config.PathsIn(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	return NewStore(paths, nil)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snapshot := &domain.Snapshot{
		Date: day(2026, time.January, 9),
		Holdings: []domain.Holding{
			{Identifier: "2330", Label: "台積電", Quantity: 12000},
			{Identifier: "2454", Label: "聯發科", Quantity: 3000},
			{Identifier: "AAPL", Label: "Apple Inc.", Quantity: 120},
		},
	}

	require.NoError(t, s.Save(ctx, snapshot))

	loaded, err := s.Load(ctx, "20260109")
	require.NoError(t, err)
	assert.Equal(t, snapshot.Date, loaded.Date)
	assert.Equal(t, snapshot.Holdings, loaded.Holdings)
}

func TestStoreSaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &domain.Snapshot{
		Date:     day(2026, time.January, 9),
		Holdings: []domain.Holding{{Identifier: "2330", Label: "台積電", Quantity: 100}},
	}
	require.NoError(t, s.Save(ctx, first))

	second := &domain.Snapshot{
		Date:     day(2026, time.January, 9),
		Holdings: []domain.Holding{{Identifier: "2330", Label: "台積電", Quantity: 999}},
	}
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.Load(ctx, "20260109")
	require.NoError(t, err)
	require.Len(t, loaded.Holdings, 1)
	assert.Equal(t, int64(999), loaded.Holdings[0].Quantity)
}

func TestStoreLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, d := range []time.Time{
		day(2026, time.January, 6),
		day(2026, time.January, 8),
		day(2026, time.January, 9),
	} {
		snap := &domain.Snapshot{
			Date:     d,
			Holdings: []domain.Holding{{Identifier: "2330", Label: "台積電", Quantity: 100}},
		}
		require.NoError(t, s.Save(ctx, snap))
	}

	// Strictly before: the snapshot for the 9th is not its own baseline.
	latest, err := s.Latest(ctx, day(2026, time.January, 9))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "20260108", latest.DateKey())

	latest, err = s.Latest(ctx, day(2026, time.January, 7))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "20260106", latest.DateKey())
}

func TestStoreLatestNoPriorSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	latest, err := s.Latest(ctx, day(2026, time.January, 9))
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestStoreLatestMissingDirectory(t *testing.T) {
	paths := config.PathsIn(t.TempDir())
	s := NewStore(paths, nil)

	latest, err := s.Latest(context.Background(), day(2026, time.January, 9))
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestStoreLatestIgnoresForeignFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"notes.txt", "holdings_2026.csv", "diff_20260108.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(s.paths.SnapshotsDir, name), []byte("x"), 0644))
	}

	latest, err := s.Latest(ctx, day(2026, time.January, 9))
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestStoreLoadUnknownDate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "20250101")
	require.Error(t, err)
}

func TestStoreLoadRejectsBadDateKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "not-a-date")
	require.Error(t, err)
}
