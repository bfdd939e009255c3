// Package config loads process configuration from the environment,
// honoring a .env file in the working directory when present.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// ErrMissingSonarConfig is returned when the analysis server endpoint or
// credential is absent. Nothing can be processed without them.
var ErrMissingSonarConfig = errors.New("missing SONAR_HOST or SONAR_TOKEN in environment or .env file")

// Config holds the validated process configuration.
type Config struct {
	// SonarHost is the base URL of the SonarQube server.
	SonarHost string
	// SonarToken authenticates every API call and scanner invocation.
	SonarToken string

	// WorkDir is where repository working copies are kept.
	WorkDir string
	// DefaultBranch is the branch working copies are brought to.
	DefaultBranch string
}

// Load reads configuration, failing fast when the Sonar endpoint or
// credential is missing.
func Load() (Config, error) {
	// Ignore a missing .env file; plain environment variables still apply.
	_ = godotenv.Load()

	cfg := Config{
		SonarHost:     os.Getenv("SONAR_HOST"),
		SonarToken:    os.Getenv("SONAR_TOKEN"),
		WorkDir:       getEnv("SONARFLEET_WORK_DIR", "/tmp/sonarfleet"),
		DefaultBranch: getEnv("SONARFLEET_BRANCH", "main"),
	}

	if cfg.SonarHost == "" || cfg.SonarToken == "" {
		return Config{}, ErrMissingSonarConfig
	}

	return cfg, nil
}

// IsDev reports whether the process runs in development mode.
func IsDev() bool {
	return os.Getenv("SONARFLEET_ENV") == "dev"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
