//go:build !unix

package preflight

import "os"

// checkAccess probes writability by creating a scratch file.
func checkAccess(path string) error {
	f, err := os.CreateTemp(path, ".sosi2gpkg-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
