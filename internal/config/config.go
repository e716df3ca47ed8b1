package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	LogDir      string `toml:"log_dir"`
	StateDir    string `toml:"state_dir"`
	TempDir     string `toml:"temp_dir"`
	ProjectFile string `toml:"project_file"`
}

// Ogr2ogr contains configuration for the external conversion tool.
type Ogr2ogr struct {
	// Binary is an explicit executable path. When empty the install prefixes
	// and PATH are searched.
	Binary          string   `toml:"binary"`
	InstallPrefixes []string `toml:"install_prefixes"`
	BatchSize       int      `toml:"batch_size"`
	StartTimeoutMS  int      `toml:"start_timeout_ms"`
	KillTimeoutMS   int      `toml:"kill_timeout_ms"`
	PollIntervalMS  int      `toml:"poll_interval_ms"`
}

// Workaround contains configuration for the encoding-workaround retry.
type Workaround struct {
	Enabled        bool   `toml:"enabled"`
	ForceVersion   bool   `toml:"force_version"`
	TargetEncoding string `toml:"target_encoding"`
	KeepCopy       bool   `toml:"keep_copy"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	ToFile bool   `toml:"to_file"`
}

// Config encapsulates all configuration values for sosi2gpkg.
//
// Configuration sections by subsystem:
//   - Paths: log, state, temp directories and the workspace project file
//   - Ogr2ogr: converter discovery, batch size, process timeouts
//   - Workaround: encoding/version rewrite retry settings
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Ogr2ogr    Ogr2ogr    `toml:"ogr2ogr"`
	Workaround Workaround `toml:"workaround"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sosi2gpkg/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sosi2gpkg.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories. The temp directory
// is created lazily by the workaround generator.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryDBPath returns the SQLite database recording past import runs.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogFilePath returns the log file used when logging.to_file is enabled.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "sosi2gpkg.log")
}

// StartTimeout is the allowance for the converter process to begin executing.
func (c *Config) StartTimeout() time.Duration {
	return time.Duration(c.Ogr2ogr.StartTimeoutMS) * time.Millisecond
}

// KillTimeout is the allowance for the converter to exit after a kill signal.
func (c *Config) KillTimeout() time.Duration {
	return time.Duration(c.Ogr2ogr.KillTimeoutMS) * time.Millisecond
}

// PollInterval bounds each wait for converter output.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Ogr2ogr.PollIntervalMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "sosi2gpkg")
	}
	return defaultStateDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
