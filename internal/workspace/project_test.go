package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sosi2gpkg/internal/services"
	"sosi2gpkg/internal/workspace"
)

func TestProjectPersistsLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "project.toml")
	p, err := workspace.OpenProject(path)
	require.NoError(t, err)
	assert.Zero(t, p.LayerCount())

	require.True(t, p.AddLayer(workspace.LayerRef{Source: "/d/out.gpkg|layername=Veg", Name: "Veg", Provider: "ogr"}))
	_, err = os.Stat(path)
	require.NoError(t, err, "unsuspended add saves immediately")

	reopened, err := workspace.OpenProject(path)
	require.NoError(t, err)
	layers := reopened.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, "Veg", layers[0].Name)
	assert.Equal(t, "ogr", layers[0].Provider)
	assert.False(t, layers[0].AddedAt.IsZero())
}

func TestProjectDefersSavesWhileSuspended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.toml")
	p, err := workspace.OpenProject(path)
	require.NoError(t, err)

	require.NoError(t, p.SuspendRendering(true))
	require.True(t, p.AddLayer(workspace.LayerRef{Source: "a|layername=a", Name: "a"}))
	require.True(t, p.AddLayer(workspace.LayerRef{Source: "a|layername=b", Name: "b"}))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no write while suspended")

	require.NoError(t, p.SuspendRendering(false))
	require.NoError(t, p.Err())
	reopened, err := workspace.OpenProject(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.LayerCount())
}

func TestProjectReplacesSameSource(t *testing.T) {
	p, err := workspace.OpenProject(filepath.Join(t.TempDir(), "project.toml"))
	require.NoError(t, err)
	ref := workspace.LayerRef{Source: "out.gpkg|layername=Veg", Name: "Veg", Provider: "ogr"}
	require.True(t, p.AddLayer(ref))
	require.True(t, p.AddLayer(ref))
	assert.Equal(t, 1, p.LayerCount())
	assert.False(t, p.AddLayer(workspace.LayerRef{Name: "no-source"}))
}

func TestProjectRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.toml")
	require.NoError(t, os.WriteFile(path, []byte("layers = [[["), 0o644))
	_, err := workspace.OpenProject(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConfiguration)
}

func TestProjectAddFailsWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "sub")
	p, err := workspace.OpenProject(filepath.Join(parent, "project.toml"))
	require.NoError(t, err)
	// A regular file where the project directory should be makes saving fail.
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	assert.False(t, p.AddLayer(workspace.LayerRef{Source: "s", Name: "n"}))
	assert.Zero(t, p.LayerCount(), "failed add is rolled back")
	assert.ErrorIs(t, p.Err(), services.ErrFilesystem)
}

func TestProjectResumeReportsFailedFlush(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "sub")
	p, err := workspace.OpenProject(filepath.Join(parent, "project.toml"))
	require.NoError(t, err)

	require.NoError(t, p.SuspendRendering(true))
	require.True(t, p.AddLayer(workspace.LayerRef{Source: "s|layername=a", Name: "a"}))
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	err = p.SuspendRendering(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrFilesystem)
	assert.ErrorIs(t, p.Err(), services.ErrFilesystem)
	assert.Zero(t, p.LayerCount(), "unsaved batch is dropped")
	assert.False(t, p.RenderingSuspended())
}
