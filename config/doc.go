// Package config provides configuration loading and validation for
// tools built on the library.
//
// It uses Viper to load configuration from files and environment
// variables, supporting YAML files and environment-specific overrides.
//
// # Usage
//
//	type MyConfig struct {
//	    config.ShellConfig `yaml:",inline" mapstructure:",squash"`
//	}
//	var cfg MyConfig
//	err := config.LoadConfig("mytool", &cfg)
//
// Environment variables override file values, with underscore-separated
// paths mapping onto nested keys (e.g. SHELL_GRACE_PERIOD).
package config
