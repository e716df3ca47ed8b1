// Package config loads, normalizes, and validates sosi2gpkg configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OGR2OGR and QGIS_PREFIX_PATH. The Config type centralizes every knob the
// CLI needs, so converter discovery, process timeouts, and workaround
// behaviour are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
