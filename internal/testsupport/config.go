package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"sosi2gpkg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Paths.ProjectFile = filepath.Join(base, "project.toml")
	cfgVal.Ogr2ogr.PollIntervalMS = 10
	cfgVal.Ogr2ogr.KillTimeoutMS = 1000

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOgr2ogrScript writes a shell script standing in for ogr2ogr and points
// the config at it.
func WithOgr2ogrScript(body string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ogr2ogr.Binary = WriteScript(b.t, filepath.Join(b.baseDir, "bin"), "ogr2ogr", body)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ogr2ogr is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ogr2ogr"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			WriteScript(b.t, binDir, name, "exit 0\n")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
