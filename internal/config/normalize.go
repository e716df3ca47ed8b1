package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeOgr2ogr(); err != nil {
		return err
	}
	c.normalizeWorkaround()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProjectFile) == "" {
		c.Paths.ProjectFile = defaultProjectFile
	}
	if c.Paths.ProjectFile, err = expandPath(c.Paths.ProjectFile); err != nil {
		return fmt.Errorf("paths.project_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeOgr2ogr() error {
	c.Ogr2ogr.Binary = strings.TrimSpace(c.Ogr2ogr.Binary)
	if c.Ogr2ogr.Binary == "" {
		if value, ok := os.LookupEnv("OGR2OGR"); ok {
			c.Ogr2ogr.Binary = strings.TrimSpace(value)
		}
	}
	if c.Ogr2ogr.Binary != "" && strings.ContainsRune(c.Ogr2ogr.Binary, filepath.Separator) {
		expanded, err := expandPath(c.Ogr2ogr.Binary)
		if err != nil {
			return fmt.Errorf("ogr2ogr.binary: %w", err)
		}
		c.Ogr2ogr.Binary = expanded
	}

	prefixes := append([]string(nil), c.Ogr2ogr.InstallPrefixes...)
	if value, ok := os.LookupEnv("QGIS_PREFIX_PATH"); ok && strings.TrimSpace(value) != "" {
		prefixes = append(prefixes, value)
	}
	normalized := make([]string, 0, len(prefixes))
	seen := make(map[string]struct{}, len(prefixes))
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		expanded, err := expandPath(prefix)
		if err != nil {
			return fmt.Errorf("ogr2ogr.install_prefixes: %w", err)
		}
		if _, exists := seen[expanded]; exists {
			continue
		}
		seen[expanded] = struct{}{}
		normalized = append(normalized, expanded)
	}
	c.Ogr2ogr.InstallPrefixes = normalized

	if c.Ogr2ogr.BatchSize <= 0 {
		c.Ogr2ogr.BatchSize = defaultBatchSize
	}
	if c.Ogr2ogr.StartTimeoutMS <= 0 {
		c.Ogr2ogr.StartTimeoutMS = defaultStartTimeoutMS
	}
	if c.Ogr2ogr.KillTimeoutMS <= 0 {
		c.Ogr2ogr.KillTimeoutMS = defaultKillTimeoutMS
	}
	if c.Ogr2ogr.PollIntervalMS <= 0 {
		c.Ogr2ogr.PollIntervalMS = defaultPollIntervalMS
	}
	return nil
}

func (c *Config) normalizeWorkaround() {
	c.Workaround.TargetEncoding = strings.TrimSpace(c.Workaround.TargetEncoding)
	if c.Workaround.TargetEncoding == "" {
		c.Workaround.TargetEncoding = defaultTargetEncoding
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
