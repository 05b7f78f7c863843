// Package config loads the YAML configuration of the descgen command.
package config
