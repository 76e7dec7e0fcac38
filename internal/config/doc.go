// Package config loads, normalizes, and validates wotr-audio configuration.
//
// Every setting has a built-in default matching the layout of a stock Steam
// installation and a Tools/ directory next to the working directory, so a run
// with no configuration file behaves like the original hard-coded export. A
// TOML file (and the WOTR_AUDIO_GAME_ROOT environment variable) can override
// any of those defaults.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
