package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	baseURLVar    = "INSPECTOR_BASE_URL"
	timeoutVar    = "INSPECTOR_TIMEOUT"
	dataDirVar    = "INSPECTOR_DATA_DIR"
	passphraseVar = "INSPECTOR_PASSPHRASE"
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
)

const defaultBaseURL = "https://ztrust-email-inspector-backend-production.up.railway.app"

// EnvVars reads every setting from the process environment.
type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Inspector")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "production")
}

func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, defaultBaseURL)
}

// GetRequestTimeout returns the per-request bound; malformed values fall
// back to the default rather than failing startup.
func (EnvVars) GetRequestTimeout() time.Duration {
	raw := GetEnv(timeoutVar, "10s")
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func (EnvVars) GetDataDir() string {
	if dir := GetEnv(dataDirVar, ""); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inspector"
	}
	return filepath.Join(home, ".inspector")
}

// GetPassphrase, when non-empty, switches persisted state to the sealed
// store.
func (EnvVars) GetPassphrase() string {
	return GetEnv(passphraseVar, "")
}

// GetEnv returns the variable's value or the fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
