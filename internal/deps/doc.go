// Package deps locates the external tools sosi2gpkg runs and reports their
// availability for the doctor command.
package deps
