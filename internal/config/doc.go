// Package config loads service settings from TASKER_* environment variables
// and an optional config.yaml, then validates them with struct tags.
package config
