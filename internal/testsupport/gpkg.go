package testsupport

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// FixtureLayer describes one layer of a generated GeoPackage.
type FixtureLayer struct {
	Name string
	// GeometryType is the geometry column type; empty makes an attributes table.
	GeometryType string
	Rows         int
	// Unregistered leaves a feature layer out of gpkg_geometry_columns.
	Unregistered bool
	// MissingTable lists the layer in gpkg_contents without creating its table.
	MissingTable bool
}

// WriteGeoPackage creates a minimal GeoPackage at path holding layers in the
// given order.
func WriteGeoPackage(t testing.TB, path string, layers ...FixtureLayer) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture gpkg: %v", err)
	}
	defer db.Close()

	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("fixture gpkg %q: %v", query, err)
		}
	}

	exec("PRAGMA application_id = 1196444487")
	exec(`CREATE TABLE gpkg_spatial_ref_sys (
  srs_name TEXT NOT NULL,
  srs_id INTEGER PRIMARY KEY,
  organization TEXT NOT NULL,
  organization_coordsys_id INTEGER NOT NULL,
  definition TEXT NOT NULL,
  description TEXT)`)
	exec(`INSERT INTO gpkg_spatial_ref_sys VALUES ('ETRS89 / UTM zone 32N', 25832, 'EPSG', 25832, 'undefined', NULL)`)
	exec(`CREATE TABLE gpkg_contents (
  table_name TEXT NOT NULL PRIMARY KEY,
  data_type TEXT NOT NULL,
  identifier TEXT UNIQUE,
  description TEXT DEFAULT '',
  last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
  min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE,
  srs_id INTEGER)`)
	exec(`CREATE TABLE gpkg_geometry_columns (
  table_name TEXT NOT NULL,
  column_name TEXT NOT NULL,
  geometry_type_name TEXT NOT NULL,
  srs_id INTEGER NOT NULL,
  z TINYINT NOT NULL,
  m TINYINT NOT NULL,
  CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name))`)

	for _, layer := range layers {
		quoted := fmt.Sprintf(`"%s"`, layer.Name)
		dataType := "attributes"
		if layer.GeometryType != "" {
			dataType = "features"
		}
		if !layer.MissingTable {
			if dataType == "features" {
				exec("CREATE TABLE " + quoted + " (fid INTEGER PRIMARY KEY AUTOINCREMENT, geom BLOB, objtype TEXT)")
			} else {
				exec("CREATE TABLE " + quoted + " (fid INTEGER PRIMARY KEY AUTOINCREMENT, objtype TEXT)")
			}
			for i := 0; i < layer.Rows; i++ {
				exec("INSERT INTO "+quoted+" (objtype) VALUES (?)", fmt.Sprintf("row%d", i))
			}
		}
		exec("INSERT INTO gpkg_contents (table_name, data_type, identifier, srs_id) VALUES (?, ?, ?, 25832)",
			layer.Name, dataType, layer.Name)
		if dataType == "features" && !layer.Unregistered {
			exec("INSERT INTO gpkg_geometry_columns VALUES (?, 'geom', ?, 25832, 0, 0)", layer.Name, layer.GeometryType)
		}
	}
	return path
}
