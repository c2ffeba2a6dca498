// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It exposes the bin capacity, request limits
// and benchmark sizes to the server and the command-line tool.
package config
