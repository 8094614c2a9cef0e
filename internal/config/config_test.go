package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vdesk/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VDESK_ACCOUNT_FILE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "vdesk", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantAccount := filepath.Join(tempHome, ".config", "vdesk", "account.yml")
	if cfg.Paths.AccountFile != wantAccount {
		t.Fatalf("unexpected account file: got %q want %q", cfg.Paths.AccountFile, wantAccount)
	}
	if cfg.Paths.ArtifactDir == "" {
		t.Fatal("expected artifact dir to default to the temp dir")
	}
	if cfg.RequestTimeout().Seconds() != 10 {
		t.Fatalf("unexpected request timeout: %v", cfg.RequestTimeout())
	}
	if cfg.UnlockTimeout().Seconds() != 10 {
		t.Fatalf("unexpected unlock timeout: %v", cfg.UnlockTimeout())
	}
	if cfg.Viewer.Wait {
		t.Fatal("expected detached viewer by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfgVal := config.Default()
	cfgVal.Paths.AccountFile = filepath.Join(dir, "account.toml")
	cfgVal.Paths.ArtifactDir = filepath.Join(dir, "artifacts")
	cfgVal.Paths.LogDir = filepath.Join(dir, "logs")
	cfgVal.API.RequestTimeout = 3
	cfgVal.Viewer.Wait = true
	cfgVal.Viewer.Settings = map[string]string{" release-cursor ": "shift+f12"}
	cfgVal.Logging.Format = "JSON"

	data, err := toml.Marshal(cfgVal)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to exist, got %q exists=%v", path, resolved, exists)
	}
	if cfg.API.RequestTimeout != 3 {
		t.Fatalf("unexpected request timeout: %d", cfg.API.RequestTimeout)
	}
	if !cfg.Viewer.Wait {
		t.Fatal("expected wait=true from file")
	}
	if cfg.Viewer.Settings["release-cursor"] != "shift+f12" {
		t.Fatalf("expected trimmed settings key, got %v", cfg.Viewer.Settings)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lower-cased log format, got %q", cfg.Logging.Format)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.ArtifactDir); err != nil {
		t.Fatalf("expected artifact dir to exist: %v", err)
	}
}

func TestAccountFileEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	override := filepath.Join(t.TempDir(), "creds.yml")
	t.Setenv("VDESK_ACCOUNT_FILE", override)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.AccountFile != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.AccountFile)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"logging.format":  func(c *config.Config) { c.Logging.Format = "xml" },
		"logging.level":   func(c *config.Config) { c.Logging.Level = "trace" },
		"viewer.settings": func(c *config.Config) { c.Viewer.Settings = map[string]string{"bad=key": "x"} },
		"api.request":     func(c *config.Config) { c.API.RequestTimeout = -1 },
	}
	for name, mutate := range cases {
		cfg := config.Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[viewer]") {
		t.Fatalf("sample missing viewer section: %s", data)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample to load, exists=%v err=%v", exists, err)
	}
}
