// Package gpkg reads the layer catalogue of a GeoPackage.
//
// A GeoPackage is a SQLite database; layers are the rows of gpkg_contents
// and feature layers are additionally registered in gpkg_geometry_columns.
// The reader never writes to the container.
package gpkg
