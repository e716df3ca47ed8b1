package preflight

import (
	"context"
	"os"
	"path/filepath"

	"sosi2gpkg/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config. Missing state and
// log directories are created first; the temp parent must already exist.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, dir := range []struct{ name, path string }{
		{"State directory", cfg.Paths.StateDir},
		{"Log directory", cfg.Paths.LogDir},
	} {
		_ = os.MkdirAll(dir.path, 0o755)
		results = append(results, CheckDirectoryAccess(dir.name, dir.path))
	}

	tempDir := cfg.Paths.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	} else {
		_ = os.MkdirAll(tempDir, 0o755)
	}
	results = append(results, CheckDirectoryAccess("Temp directory", tempDir))

	if cfg.Paths.ProjectFile != "" {
		projectDir := filepath.Dir(cfg.Paths.ProjectFile)
		_ = os.MkdirAll(projectDir, 0o755)
		results = append(results, CheckDirectoryAccess("Project directory", projectDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
