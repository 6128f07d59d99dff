// Package config loads and validates monitor configuration.
//
// Configuration is a YAML file with ${VAR} environment expansion.
// An optional .env file in the working directory is loaded first, so
// provider API keys can live outside the config file.
package config
