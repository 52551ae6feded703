package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RACEPOST_CONFIG is set
//  3. env (prefix RACEPOST_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RACEPOST_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: RACEPOST_RACING_USER, RACEPOST_MAX_PER_RUN, ...
	// Map env keys like RACEPOST_MAX_PER_RUN -> max_per_run (flat keys,
	// underscores preserved to match koanf tags on the struct).
	envProvider := env.Provider("RACEPOST_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "racepost_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.RacingUser == "" || cfg.RacingPass == "" {
		return nil, errors.New("racing_user and racing_pass must not be empty")
	}
	if cfg.MaxPerRun <= 0 {
		return nil, errors.New("max_per_run must be positive")
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	return &cfg, nil
}
