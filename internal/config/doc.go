// Package config loads and validates the hushcut TOML configuration.
//
// Load resolves the config path (explicit flag, then the user config dir,
// then a project-local hushcut.toml), decodes it over the repository
// defaults, expands ~ in every path field, and validates the result. A
// sample config is embedded for `hushcut config init`.
package config
