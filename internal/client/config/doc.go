// Package config loads runtime settings for the EventHub CLI from defaults,
// the environment, an optional JSON file and command-line flags, in that
// order of precedence (later sources win).
package config
