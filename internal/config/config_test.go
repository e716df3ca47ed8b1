package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"sosi2gpkg/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("OGR2OGR", "")
	t.Setenv("QGIS_PREFIX_PATH", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "sosi2gpkg", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	wantState := filepath.Join(tempHome, ".local", "state", "sosi2gpkg")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.HistoryDBPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryDBPath())
	}
	if cfg.Ogr2ogr.BatchSize != 50000 {
		t.Fatalf("unexpected batch size: %d", cfg.Ogr2ogr.BatchSize)
	}
	if cfg.StartTimeout() != 5*time.Second {
		t.Fatalf("unexpected start timeout: %s", cfg.StartTimeout())
	}
	if cfg.KillTimeout() != 2*time.Second {
		t.Fatalf("unexpected kill timeout: %s", cfg.KillTimeout())
	}
	if cfg.PollInterval() != 50*time.Millisecond {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval())
	}
	if !cfg.Workaround.Enabled || !cfg.Workaround.ForceVersion {
		t.Fatal("expected workaround enabled with forced version by default")
	}
	if cfg.Workaround.TargetEncoding != "ISO8859-10" {
		t.Fatalf("unexpected target encoding: %q", cfg.Workaround.TargetEncoding)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "sosi2gpkg.toml")
	t.Setenv("OGR2OGR", "")
	t.Setenv("QGIS_PREFIX_PATH", "")

	type payload struct {
		Ogr2ogr struct {
			Binary          string   `toml:"binary"`
			InstallPrefixes []string `toml:"install_prefixes"`
			BatchSize       int      `toml:"batch_size"`
		} `toml:"ogr2ogr"`
		Workaround struct {
			ForceVersion bool `toml:"force_version"`
		} `toml:"workaround"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Ogr2ogr.Binary = "/opt/gdal/bin/ogr2ogr"
	custom.Ogr2ogr.InstallPrefixes = []string{"/opt/qgis", " ", "/opt/qgis"}
	custom.Ogr2ogr.BatchSize = 1000
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Ogr2ogr.Binary != "/opt/gdal/bin/ogr2ogr" {
		t.Fatalf("unexpected binary: %q", cfg.Ogr2ogr.Binary)
	}
	if len(cfg.Ogr2ogr.InstallPrefixes) != 1 || cfg.Ogr2ogr.InstallPrefixes[0] != "/opt/qgis" {
		t.Fatalf("expected deduplicated prefixes, got %v", cfg.Ogr2ogr.InstallPrefixes)
	}
	if cfg.Ogr2ogr.BatchSize != 1000 {
		t.Fatalf("expected batch size 1000, got %d", cfg.Ogr2ogr.BatchSize)
	}
	if cfg.Workaround.ForceVersion {
		t.Fatal("expected force_version override to false")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
}

func TestEnvFallbacks(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("OGR2OGR", "ogr2ogr-custom")
	t.Setenv("QGIS_PREFIX_PATH", filepath.Join(tempDir, "qgis"))

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Ogr2ogr.Binary != "ogr2ogr-custom" {
		t.Fatalf("expected binary from env, got %q", cfg.Ogr2ogr.Binary)
	}
	if len(cfg.Ogr2ogr.InstallPrefixes) != 1 || cfg.Ogr2ogr.InstallPrefixes[0] != filepath.Join(tempDir, "qgis") {
		t.Fatalf("expected QGIS prefix from env, got %v", cfg.Ogr2ogr.InstallPrefixes)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"encoding", "[workaround]\ntarget_encoding = \"KLINGON\"\n", "workaround.target_encoding"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"poll interval", "[ogr2ogr]\npoll_interval_ms = 500\n", "poll_interval_ms"},
		{"unknown key", "[ogr2ogr]\nspeed = 11\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, fragment := range []string{"[ogr2ogr]", "[workaround]", "target_encoding"} {
		if !strings.Contains(string(contents), fragment) {
			t.Fatalf("expected sample to contain %q", fragment)
		}
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
