// Package config loads application settings from a YAML file. Every field
// has a default so an absent file or empty document still yields a usable
// configuration.
package config
