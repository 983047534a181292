package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "00981A", cfg.Fund.Code)
	assert.Equal(t, "49YTW", cfg.Fund.ExportCode)
	assert.Equal(t, "https://www.ezmoney.com.tw", cfg.Fetch.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Fetch.InfoTimeout)
	assert.Equal(t, 60*time.Second, cfg.Fetch.ExportTimeout)
	assert.Equal(t, 2*time.Second, cfg.Fetch.RequestInterval)
	assert.Equal(t, 15, cfg.Report.TopN)
	assert.Equal(t, 20, cfg.Report.HeaderScanLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("ETF_FUND_CODE", "00999B")
	t.Setenv("ETF_FETCH_REQUEST_INTERVAL", "5s")
	t.Setenv("ETF_REPORT_TOP_N", "3")
	t.Setenv("ETF_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "00999B", cfg.Fund.Code)
	assert.Equal(t, 5*time.Second, cfg.Fetch.RequestInterval)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown log level", key: "ETF_LOGGING_LEVEL", value: "loud"},
		{name: "malformed base url", key: "ETF_FETCH_BASE_URL", value: "not a url"},
		{name: "zero top n", key: "ETF_REPORT_TOP_N", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
fund:
  code: "00981A"
  export_code: "49YTW"
fetch:
  base_url: "https://example.com"
report:
  top_n: 7
logging:
  level: "warn"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "00981A", cfg.Fund.Code)
	assert.Equal(t, "https://example.com", cfg.Fetch.BaseURL)
	assert.Equal(t, 7, cfg.Report.TopN)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromFileMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fund: [not a mapping"), 0644))

	_, err := loadFromFile(path)
	assert.Error(t, err)
}

func TestMergeConfigsEnvWins(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Fund.Code = "FROM_FILE"
	fileCfg.Report.TopN = 7
	fileCfg.Logging.Level = "warn"

	envCfg := Config{}
	envCfg.Fund.Code = "FROM_ENV"

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, "FROM_ENV", merged.Fund.Code)
	// Unset env fields fall back to the file.
	assert.Equal(t, 7, merged.Report.TopN)
	assert.Equal(t, "warn", merged.Logging.Level)
}
