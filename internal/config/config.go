// Package config reads the client's configuration from environment
// variables with sensible defaults.
package config

import "time"

// Config is everything the application needs to wire itself.
type Config interface {
	EnvConfig
	ClientConfig
}

// EnvConfig exposes process-level settings.
type EnvConfig interface {
	GetAppName() string
	GetDataDir() string
	GetEnv() string
}

// ClientConfig exposes settings for the API client.
type ClientConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetPassphrase() string
}

type mainConfig struct {
	EnvVars
}

// New returns the environment-backed configuration.
func New() Config {
	return mainConfig{}
}
