package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsIn(t *testing.T) {
	root := t.TempDir()
	paths := PathsIn(root)

	assert.Equal(t, root, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(root, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(root, "data", "downloads"), paths.DownloadsDir)
	assert.Equal(t, filepath.Join(root, "data", "snapshots"), paths.SnapshotsDir)
	assert.Equal(t, filepath.Join(root, "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(root, "logs"), paths.LogsDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths := PathsIn(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.DownloadsDir, paths.SnapshotsDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, "directory %s", dir)
		assert.True(t, info.IsDir())
	}

	// Idempotent: running again over existing directories is fine.
	assert.NoError(t, paths.EnsureDirectories())
}

func TestGetSnapshotPath(t *testing.T) {
	paths := PathsIn("/app")
	assert.Equal(t, filepath.Join("/app", "data", "snapshots", "holdings_20260109.csv"), paths.GetSnapshotPath("20260109"))
}

func TestDownloadFilename(t *testing.T) {
	date := time.Date(2026, time.January, 9, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "00981A_20260109.xlsx", DownloadFilename("00981A", date))
}

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)
	assert.NotEmpty(t, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
}
