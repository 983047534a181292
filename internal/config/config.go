package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Fund    FundConfig    `yaml:"fund" envconfig:"FUND"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// FundConfig identifies the fund whose disclosure is processed
type FundConfig struct {
	Code       string `yaml:"code" envconfig:"CODE" default:"00981A" validate:"required"`
	ExportCode string `yaml:"export_code" envconfig:"EXPORT_CODE" default:"49YTW" validate:"required"`
}

// FetchConfig contains retrieval client configuration
type FetchConfig struct {
	BaseURL         string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://www.ezmoney.com.tw" validate:"required,url"`
	UserAgent       string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0 Safari/537.36"`
	InfoTimeout     time.Duration `yaml:"info_timeout" envconfig:"INFO_TIMEOUT" default:"30s"`
	ExportTimeout   time.Duration `yaml:"export_timeout" envconfig:"EXPORT_TIMEOUT" default:"60s"`
	RequestInterval time.Duration `yaml:"request_interval" envconfig:"REQUEST_INTERVAL" default:"2s"`
}

// ReportConfig controls diff report generation
type ReportConfig struct {
	TopN            int `yaml:"top_n" envconfig:"TOP_N" default:"15" validate:"min=1"`
	HeaderScanLimit int `yaml:"header_scan_limit" envconfig:"HEADER_SCAN_LIMIT" default:"20" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("ETF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config into env config, env values win
// when both are set.
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := envCfg

	if merged.Fund.Code == "" {
		merged.Fund.Code = fileCfg.Fund.Code
	}
	if merged.Fund.ExportCode == "" {
		merged.Fund.ExportCode = fileCfg.Fund.ExportCode
	}
	if merged.Fetch.BaseURL == "" {
		merged.Fetch.BaseURL = fileCfg.Fetch.BaseURL
	}
	if merged.Fetch.UserAgent == "" {
		merged.Fetch.UserAgent = fileCfg.Fetch.UserAgent
	}
	if fileCfg.Report.TopN > 0 && merged.Report.TopN == 0 {
		merged.Report.TopN = fileCfg.Report.TopN
	}
	if fileCfg.Report.HeaderScanLimit > 0 && merged.Report.HeaderScanLimit == 0 {
		merged.Report.HeaderScanLimit = fileCfg.Report.HeaderScanLimit
	}
	if merged.Logging.Level == "" {
		merged.Logging.Level = fileCfg.Logging.Level
	}
	if merged.Logging.Output == "" {
		merged.Logging.Output = fileCfg.Logging.Output
	}
	if merged.Logging.FilePath == "" {
		merged.Logging.FilePath = fileCfg.Logging.FilePath
	}
	if merged.Paths.DataDir == "" {
		merged.Paths.DataDir = fileCfg.Paths.DataDir
	}
	if merged.Paths.LogsDir == "" {
		merged.Paths.LogsDir = fileCfg.Paths.LogsDir
	}

	return merged
}

// validate runs struct-level validation over the loaded configuration
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the expected config file location next to
// the executable, falling back to the working directory.
func getConfigFilePath() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return "config.yaml"
}
