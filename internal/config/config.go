/*
Package config holds process configuration for a single pipeline run.

All configuration is environment-sourced (prefix RACEPOST_), optionally
layered over a YAML file named by RACEPOST_CONFIG. There are no command-line
flags.
*/
package config

import (
	"os"
	"path/filepath"
)

const (
	stateDirName  = "racepost"
	stateFileName = "posted_ids.json"
)

// Config is built once at process start and passed explicitly to the run
// controller and its collaborators. No ambient globals.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Racing API credentials (HTTP basic auth).
	RacingUser string `koanf:"racing_user"`
	RacingPass string `koanf:"racing_pass"`

	// Region restricts the feed to one region code, e.g. "GB".
	Region string `koanf:"region"`

	// X API credentials (OAuth 1.0a user context).
	XAPIKey       string `koanf:"x_api_key"`
	XAPISecret    string `koanf:"x_api_secret"`
	XAccessToken  string `koanf:"x_access_token"`
	XAccessSecret string `koanf:"x_access_secret"`

	// MaxPerRun caps successful publishes within one invocation.
	MaxPerRun int `koanf:"max_per_run"`

	// PostedIDsFile is the persisted set of already-published race ids.
	PostedIDsFile string `koanf:"posted_ids_file"`

	// CoursesFile optionally overrides the built-in course handle table.
	CoursesFile string `koanf:"courses_file"`

	// Optional end-of-run email digest.
	SMTPServer string `koanf:"smtp_server"`
	SMTPPort   int    `koanf:"smtp_port"`
	SMTPUser   string `koanf:"smtp_user"`
	SMTPPass   string `koanf:"smtp_pass"`
	ToEmail    string `koanf:"to_email"`
	FromEmail  string `koanf:"from_email"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Region:        "GB",
		MaxPerRun:     5,
		PostedIDsFile: filepath.Join(os.TempDir(), stateDirName, stateFileName),
		SMTPServer:    "smtp.gmail.com",
		SMTPPort:      587,
	}
}

// EmailEnabled reports whether the digest email is fully configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPServer != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.ToEmail != ""
}
