// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Both binaries read their settings through the Config interface so the code
// that consumes a value does not care whether it came from the YAML file, an
// environment variable, a command-line flag, or a compiled-in default.
//
// Precedence, highest first: flag (when bound), environment, file, default.
// Environment keys are the config keys upper-cased with dots replaced by
// underscores, e.g. "model.path" is read from MODEL_PATH.
package pkgconfig
