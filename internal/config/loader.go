package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HDWATCH_CONFIG is set
//  3. env (prefix HDWATCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided.
	if path := os.Getenv("HDWATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: HDWATCH_ADDR, HDWATCH_POLL_INTERVAL_SECS, ...
	// Map env keys like HDWATCH_CACHE_PATH -> cache_path (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("HDWATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "hdwatch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	_ = ctx
	return &cfg, nil
}

// validate rejects configurations the daemon cannot run with.
func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.LeaderboardURL == "":
		return fmt.Errorf("%w: leaderboard_url must not be empty", ErrInvalidConfig)
	case cfg.CachePath == "":
		return fmt.Errorf("%w: cache_path must not be empty", ErrInvalidConfig)
	case cfg.PollIntervalSecs <= 0:
		return fmt.Errorf("%w: poll_interval_secs must be positive", ErrInvalidConfig)
	case cfg.RequestTimeoutSecs <= 0:
		return fmt.Errorf("%w: request_timeout_secs must be positive", ErrInvalidConfig)
	}
	return nil
}
