package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"sosi2gpkg/internal/config"
	"sosi2gpkg/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	fixture    string
	argsLog    string
}

type fakeOgr2ogr struct {
	// failFast makes attempts carrying -gt fail.
	failFast bool
	// failAll makes every conversion fail.
	failAll bool
}

func setupCLITestEnv(t *testing.T, fake fakeOgr2ogr) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("OGR2OGR", "")
	t.Setenv("QGIS_PREFIX_PATH", "")

	fixture := testsupport.WriteGeoPackage(t, filepath.Join(base, "fixture", "converted.gpkg"),
		testsupport.FixtureLayer{Name: "Veg", GeometryType: "MULTILINESTRING", Rows: 3},
		testsupport.FixtureLayer{Name: "Bygning", GeometryType: "MULTIPOLYGON", Rows: 1},
	)
	argsLog := filepath.Join(base, "ogr2ogr-args.log")

	var script strings.Builder
	script.WriteString("if [ \"$1\" = \"--version\" ]; then echo 'GDAL 3.8.4, released 2024/02/08'; exit 0; fi\n")
	fmt.Fprintf(&script, "echo \"$@\" >> '%s'\n", argsLog)
	if fake.failAll {
		script.WriteString("echo 'ERROR 1: boom'\nexit 1\n")
	}
	if fake.failFast {
		script.WriteString("for a in \"$@\"; do if [ \"$a\" = \"-gt\" ]; then echo 'ERROR 1: fast attempt failed'; exit 1; fi; done\n")
	}
	script.WriteString("echo '0...10...20...30...40...50...60...70...80...90...100 - done.'\n")
	fmt.Fprintf(&script, "cp '%s' \"$3\"\n", fixture)
	cfg.Ogr2ogr.Binary = testsupport.WriteScript(t, filepath.Join(base, "bin"), "ogr2ogr", script.String())

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		fixture:    fixture,
		argsLog:    argsLog,
	}
}

func (e *cliTestEnv) recordedArgs(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.argsLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read args log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func runCLI(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.SetIn(stdin)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
