// Package config loads, normalizes, and validates speechscope configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and analysis packages need: statistics options, waveform and spectrogram
// parameters, and log output settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical parameter values, and clear validation errors.
package config
