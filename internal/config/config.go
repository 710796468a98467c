package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	TodayFormulaSum   = "sum"
	TodayFormulaRatio = "ratio"
)

type Config struct {
	Storage struct {
		Driver string `yaml:"driver"` // "sqlite3" (cgo) or "sqlite" (pure Go)
		Path   string `yaml:"path"`
	} `yaml:"storage"`
	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Dashboard struct {
		TodayFormula string `yaml:"today_formula"`
	} `yaml:"dashboard"`
}

func Default() *Config {
	var cfg Config
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.Path = "journal.db"
	cfg.Logging.Level = "info"
	cfg.Logging.MaxSizeMB = 10
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28
	cfg.Server.Port = 8080
	cfg.Dashboard.TodayFormula = TodayFormulaSum
	return &cfg
}

// Load reads the YAML file at path over the defaults, then applies a .env file
// from the working directory and JOURNAL_* environment overrides.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JOURNAL_DB_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("JOURNAL_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("JOURNAL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JOURNAL_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("JOURNAL_TODAY_FORMULA"); v != "" {
		c.Dashboard.TodayFormula = v
	}
	if v := os.Getenv("JOURNAL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOURNAL_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Storage.Driver != "sqlite3" && c.Storage.Driver != "sqlite" {
		return fmt.Errorf("storage.driver must be 'sqlite3' or 'sqlite', got %q", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Dashboard.TodayFormula != TodayFormulaSum && c.Dashboard.TodayFormula != TodayFormulaRatio {
		return fmt.Errorf("dashboard.today_formula must be 'sum' or 'ratio', got %q", c.Dashboard.TodayFormula)
	}
	return nil
}
