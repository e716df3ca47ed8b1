package gpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"sosi2gpkg/internal/services"
)

// Layer is one entry of gpkg_contents.
type Layer struct {
	Name         string
	DataType     string
	Identifier   string
	GeometryType string
	SRSID        int
}

// IsFeatures reports whether the layer carries geometry.
func (l Layer) IsFeatures() bool { return l.DataType == "features" }

// Reader is an open, read-only GeoPackage.
type Reader struct {
	db   *sql.DB
	path string
}

// Open opens path read-only. A missing file, a file that is not SQLite, or a
// database without gpkg_contents is reported as services.ErrInvalidOutput
// with the message "could not open: <path>".
func Open(ctx context.Context, path string) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, openError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, openError(path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		_ = db.Close()
		return nil, openError(path, err)
	}

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'gpkg_contents'",
	).Scan(&count)
	if err != nil || count == 0 {
		_ = db.Close()
		if err == nil {
			err = errors.New("gpkg_contents table missing")
		}
		return nil, openError(path, err)
	}
	return &Reader{db: db, path: path}, nil
}

func openError(path string, err error) error {
	return services.Wrap(services.ErrInvalidOutput, "", "", "could not open: "+path, err)
}

// Path returns the container path.
func (r *Reader) Path() string { return r.path }

// Close releases the database handle.
func (r *Reader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Layers lists gpkg_contents in storage (rowid) order.
func (r *Reader) Layers(ctx context.Context) ([]Layer, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT c.table_name,
       c.data_type,
       COALESCE(c.identifier, ''),
       COALESCE(g.geometry_type_name, ''),
       COALESCE(c.srs_id, 0)
FROM gpkg_contents c
LEFT JOIN gpkg_geometry_columns g ON g.table_name = c.table_name
ORDER BY c.rowid`)
	if err != nil && strings.Contains(err.Error(), "gpkg_geometry_columns") {
		rows, err = r.db.QueryContext(ctx, `
SELECT table_name, data_type, COALESCE(identifier, ''), '', COALESCE(srs_id, 0)
FROM gpkg_contents
ORDER BY rowid`)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidOutput, "gpkg", "list layers", r.path, err)
	}
	defer rows.Close()

	var layers []Layer
	for rows.Next() {
		var l Layer
		if err := rows.Scan(&l.Name, &l.DataType, &l.Identifier, &l.GeometryType, &l.SRSID); err != nil {
			return nil, services.Wrap(services.ErrInvalidOutput, "gpkg", "scan layer", r.path, err)
		}
		layers = append(layers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrInvalidOutput, "gpkg", "list layers", r.path, err)
	}
	return layers, nil
}

// Valid reports whether a layer can be loaded: its table (or view) exists and
// a feature layer is registered in gpkg_geometry_columns.
func (r *Reader) Valid(ctx context.Context, layer Layer) bool {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?", layer.Name,
	).Scan(&exists)
	if err != nil || exists == 0 {
		return false
	}
	if !layer.IsFeatures() {
		return true
	}
	var registered int
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM gpkg_geometry_columns WHERE table_name = ?", layer.Name,
	).Scan(&registered)
	return err == nil && registered > 0
}

// FeatureCount returns the number of rows in a layer table.
func (r *Reader) FeatureCount(ctx context.Context, name string) (int64, error) {
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(name))
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, services.Wrap(services.ErrInvalidOutput, "gpkg", "count features", name, err)
	}
	return n, nil
}

// SourceURI addresses one layer of a container: "<path>|layername=<name>".
func SourceURI(path, layer string) string {
	return path + "|layername=" + layer
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
