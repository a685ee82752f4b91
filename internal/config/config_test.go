package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.DBPath = "/tmp/brew.db"
	cfg.QCPolicy.BlockPackagingOnFail = true

	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DBPath != "/tmp/brew.db" || !loaded.QCPolicy.BlockPackagingOnFail || loaded.QCPolicy.RequirePassBeforeFinish {
		t.Errorf("loaded config = %+v", loaded)
	}
	if loaded.FermentationDays != 14 {
		t.Errorf("FermentationDays = %d, want default 14", loaded.FermentationDays)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, DirName), 0755)
	os.WriteFile(filepath.Join(dir, DirName, "config.json"), []byte("{not json"), 0644)

	if _, err := LoadConfig(dir); err == nil {
		t.Error("expected error for malformed config")
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load should surface a malformed config")
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.GravityUnit != "SG" || cfg.QCPolicy.BlockPackagingOnFail {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := SaveConfig(dir, &Config{LogLevel: "info", FermentationDays: 10}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	t.Setenv("BREWCTL_LOG_LEVEL", "debug")
	t.Setenv("BREWCTL_GRAVITY_UNIT", "plato")
	t.Setenv("BREWCTL_FERMENTATION_DAYS", "21")
	t.Setenv("BREWCTL_QC_REQUIRE_PASS_BEFORE_FINISH", "true")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.GravityUnit != "PLATO" || cfg.FermentationDays != 21 || !cfg.QCPolicy.RequirePassBeforeFinish {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "from-dotenv.db")
	os.WriteFile(filepath.Join(dir, ".env"), []byte("BREWCTL_DB_PATH="+db+"\n"), 0644)
	// godotenv does not overwrite, so make sure the variable starts unset and is cleaned up.
	t.Setenv("BREWCTL_DB_PATH", "")
	os.Unsetenv("BREWCTL_DB_PATH")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != db {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, db)
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"BREWCTL_FERMENTATION_DAYS", "soon"},
		{"BREWCTL_FERMENTATION_DAYS", "-3"},
		{"BREWCTL_QC_BLOCK_PACKAGING_ON_FAIL", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(t.TempDir()); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
