// Package config loads, normalizes, and validates paperflow configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and overlays secret-bearing fields from
// PAPERFLOW_* environment variables. The Config type centralizes every knob
// the CLI and daemon need, so the process folder layout and backend
// credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
