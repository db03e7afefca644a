// Package config loads and validates Pin Logic configuration.
//
// Configuration is read from YAML with hardcoded defaults underneath and
// PINLOGIC_* environment variables on top. Validation runs after all three
// layers are merged, so a bad file cannot be patched into validity by an
// override the operator forgot about.
package config
