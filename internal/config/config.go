package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DirName is the per-project configuration directory.
const DirName = ".brewctl"

// QCPolicy switches on QC readiness rules for lifecycle transitions.
type QCPolicy struct {
	BlockPackagingOnFail    bool `json:"block_packaging_on_fail"`
	RequirePassBeforeFinish bool `json:"require_pass_before_finish"`
}

// Config represents the brewctl configuration
type Config struct {
	DBPath           string   `json:"db_path,omitempty"`      // empty means ~/.brewctl/brewctl.db
	LogLevel         string   `json:"log_level,omitempty"`    // logrus level name
	LogFormat        string   `json:"log_format,omitempty"`   // "text" or "json"
	GravityUnit      string   `json:"gravity_unit,omitempty"` // display unit: "SG" or "PLATO"
	FermentationDays int      `json:"fermentation_days,omitempty"`
	QCPolicy         QCPolicy `json:"qc_policy"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LogLevel:         "warn",
		LogFormat:        "text",
		GravityUnit:      "SG",
		FermentationDays: 14,
	}
}

// LoadConfig reads .brewctl/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, DirName, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Load resolves the effective configuration for dir: defaults, then
// .brewctl/config.json if present, then a .env file in dir, then BREWCTL_*
// environment variables.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	// A missing .env is normal; existing environment variables win over it.
	envFile := filepath.Join(dir, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	getBool := func(k string, def bool) (bool, error) {
		v := os.Getenv(k)
		if v == "" {
			return def, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid %s=%q: %w", k, v, err)
		}
		return b, nil
	}

	cfg.DBPath = get("BREWCTL_DB_PATH", cfg.DBPath)
	cfg.LogLevel = get("BREWCTL_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = get("BREWCTL_LOG_FORMAT", cfg.LogFormat)
	cfg.GravityUnit = strings.ToUpper(get("BREWCTL_GRAVITY_UNIT", cfg.GravityUnit))

	if v := os.Getenv("BREWCTL_FERMENTATION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return fmt.Errorf("invalid BREWCTL_FERMENTATION_DAYS=%q: want a positive integer", v)
		}
		cfg.FermentationDays = days
	}

	var err error
	if cfg.QCPolicy.BlockPackagingOnFail, err = getBool("BREWCTL_QC_BLOCK_PACKAGING_ON_FAIL", cfg.QCPolicy.BlockPackagingOnFail); err != nil {
		return err
	}
	if cfg.QCPolicy.RequirePassBeforeFinish, err = getBool("BREWCTL_QC_REQUIRE_PASS_BEFORE_FINISH", cfg.QCPolicy.RequirePassBeforeFinish); err != nil {
		return err
	}
	return nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
