// Package sosi reads and rewrites the header of SOSI files.
//
// SOSI is a line-oriented text format whose header carries directives
// prefixed by one to six dots. Two concerns live here: sniffing the declared
// coordinate system (..KOORDSYS) without reading whole datasets, and
// producing a corrected temporary copy whose ..TEGNSETT and ..SOSI-VERSJON
// declarations satisfy ogr2ogr when the original is rejected outright.
//
// Nothing in this package touches ogr2ogr itself; callers hand the returned
// paths to the converter.
package sosi
