package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sosi2gpkg/internal/config"
	"sosi2gpkg/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// logger builds a logger writing to the command's stderr (and the log file
// when enabled). quiet raises the console level to warn unless --verbose is
// set, so log lines do not fight a progress bar.
func (c *commandContext) logger(cmd *cobra.Command, quiet bool) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := logging.OptionsFromConfig(cfg)
	paths := make([]string, 0, len(opts.OutputPaths))
	for _, p := range opts.OutputPaths {
		if p != "stderr" {
			paths = append(paths, p)
		}
	}
	opts.OutputPaths = paths
	opts.Writer = cmd.ErrOrStderr()
	switch {
	case c.verbose != nil && *c.verbose:
		opts.Level = "debug"
	case quiet && opts.Level != "error":
		opts.Level = "warn"
	}
	return logging.New(opts)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
