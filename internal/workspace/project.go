package workspace

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"sosi2gpkg/internal/fileutil"
	"sosi2gpkg/internal/services"
)

// ProjectLayer is one persisted layer entry.
type ProjectLayer struct {
	Name     string    `toml:"name"`
	Source   string    `toml:"source"`
	Provider string    `toml:"provider"`
	AddedAt  time.Time `toml:"added_at"`
}

type projectFile struct {
	Layers []ProjectLayer `toml:"layers"`
}

// Project is a Workspace persisted as a TOML file. Re-adding a source that is
// already listed replaces its entry instead of duplicating it.
type Project struct {
	mu        sync.Mutex
	path      string
	layers    []ProjectLayer
	suspended bool
	dirty     bool
	committed []ProjectLayer
	saveErr   error
	now       func() time.Time
}

// OpenProject loads the project file at path. A missing file yields an empty
// project that is created on first save.
func OpenProject(path string) (*Project, error) {
	p := &Project{path: path, now: time.Now}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "workspace", "read project", path, err)
	}
	var file projectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workspace", "parse project", path, err)
	}
	p.layers = file.Layers
	return p, nil
}

// Path returns the project file location.
func (p *Project) Path() string { return p.path }

// Layers returns a copy of the registered layers in insertion order.
func (p *Project) Layers() []ProjectLayer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ProjectLayer(nil), p.layers...)
}

func (p *Project) AddLayer(ref LayerRef) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ref.Source == "" || ref.Name == "" {
		return false
	}

	entry := ProjectLayer{Name: ref.Name, Source: ref.Source, Provider: ref.Provider, AddedAt: p.now().UTC()}
	previous := append([]ProjectLayer(nil), p.layers...)
	replaced := false
	for i := range p.layers {
		if p.layers[i].Source == ref.Source {
			p.layers[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		p.layers = append(p.layers, entry)
	}

	if p.suspended {
		p.dirty = true
		return true
	}
	if err := p.saveLocked(); err != nil {
		p.layers = previous
		p.saveErr = err
		return false
	}
	return true
}

func (p *Project) LayerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.layers)
}

func (p *Project) RenderingSuspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suspended
}

// SuspendRendering toggles deferred saving. Resuming writes pending changes;
// when that write fails the layers added while suspended are dropped.
func (p *Project) SuspendRendering(suspended bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if suspended {
		if !p.suspended {
			p.committed = append([]ProjectLayer(nil), p.layers...)
		}
		p.suspended = true
		return nil
	}
	p.suspended = false
	if !p.dirty {
		return nil
	}
	if err := p.saveLocked(); err != nil {
		p.layers = p.committed
		p.dirty = false
		p.saveErr = err
		return err
	}
	p.committed = nil
	return nil
}

// Save writes the project file now and reports any earlier deferred-save
// failure that has not been recovered.
func (p *Project) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.saveLocked(); err != nil {
		p.saveErr = err
		return err
	}
	p.saveErr = nil
	return nil
}

// Err returns the last save failure, if any.
func (p *Project) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveErr
}

func (p *Project) saveLocked() error {
	data, err := toml.Marshal(projectFile{Layers: p.layers})
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := fileutil.WriteFileAtomic(p.path, data, 0o644); err != nil {
		return services.Wrap(services.ErrFilesystem, "workspace", "save project", p.path, err)
	}
	p.dirty = false
	return nil
}
