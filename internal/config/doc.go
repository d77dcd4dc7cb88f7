// Package config loads, normalizes, and validates seqindex configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SEQINDEX_STATE_DIR environment
// fallback. The Config type centralizes every knob the scanner, index and CLI
// need so state and export directories are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
