// Package config loads runtime settings for the fileshare CLI.
//
// Sources are applied in order, later ones winning: built-in defaults,
// environment variables (including a .env file), an optional JSON file
// given via -c/-config, and command-line flags.
package config
