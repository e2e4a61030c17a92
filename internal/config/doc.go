// Package config loads application settings with viper from an optional
// config.yaml and ACRESSITY_ prefixed environment variables, then validates
// them with struct tags.
package config
