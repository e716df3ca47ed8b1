package importer

import (
	"fmt"

	"github.com/gofrs/flock"

	"sosi2gpkg/internal/services"
)

// outputLock guards an output GeoPackage against concurrent imports. The
// lock file stays on disk after release so every contender locks the same
// inode.
type outputLock struct {
	path string
	lock *flock.Flock
}

func lockOutput(output string) (*outputLock, error) {
	path := output + ".lock"
	l := &outputLock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "import", "lock output", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "import", "lock output",
			fmt.Sprintf("another import is writing %s", output), nil)
	}
	return l, nil
}

func (l *outputLock) release() {
	if l == nil {
		return
	}
	_ = l.lock.Unlock()
}
