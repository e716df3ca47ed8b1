package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// WriteScript writes an executable /bin/sh script into dir and returns its
// path. Tests that need it are skipped on Windows.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}

// WriteSOSI writes a minimal SOSI file with the given header directives
// (for example "..KOORDSYS 25") and returns its path.
func WriteSOSI(t testing.TB, dir, name string, directives ...string) string {
	t.Helper()
	content := ".HODE\n..TEGNSETT UTF-8\n"
	for _, d := range directives {
		content += d + "\n"
	}
	content += ".KURVE 1:\n..OBJTYPE Veg\n..NØ\n6650000 600000\n.SLUTT\n"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
