package config

import (
	"errors"
	"fmt"

	"sosi2gpkg/internal/sosi"
)

// maxPollIntervalMS keeps cancellation responsive.
const maxPollIntervalMS = 100

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOgr2ogr(); err != nil {
		return err
	}
	if err := c.validateWorkaround(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOgr2ogr() error {
	if c.Ogr2ogr.PollIntervalMS > maxPollIntervalMS {
		return fmt.Errorf("ogr2ogr.poll_interval_ms must be at most %d", maxPollIntervalMS)
	}
	if c.Ogr2ogr.BatchSize < 1 {
		return errors.New("ogr2ogr.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateWorkaround() error {
	if _, ok := sosi.LookupCharset(c.Workaround.TargetEncoding); !ok {
		return fmt.Errorf("workaround.target_encoding: unsupported value %q", c.Workaround.TargetEncoding)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
