package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/hdwatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"HDWATCH_CONFIG",
		"HDWATCH_LOG_LEVEL",
		"HDWATCH_ADDR",
		"HDWATCH_LEADERBOARD_URL",
		"HDWATCH_WEBHOOK_URL",
		"HDWATCH_CACHE_PATH",
		"HDWATCH_POLL_INTERVAL_SECS",
		"HDWATCH_REQUEST_TIMEOUT_SECS",
		"HDWATCH_NOTIFY_QUEUE_SIZE",
		"HDWATCH_NOTIFY_WORKER_COUNT",
		"HDWATCH_NOTIFIED_CACHE_SIZE",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LeaderboardURL, convey.ShouldEqual, "https://hyprd.mn/leaderboards")
				convey.So(cfg.CachePath, convey.ShouldEqual, "cache")
				convey.So(cfg.PollIntervalSecs, convey.ShouldEqual, 600)
				convey.So(cfg.NotifyQueueSize, convey.ShouldEqual, 4096)
				convey.So(cfg.NotifyWorkerCount, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("HDWATCH_ADDR", ":8080")
			_ = os.Setenv("HDWATCH_POLL_INTERVAL_SECS", "60")
			_ = os.Setenv("HDWATCH_CACHE_PATH", "/var/lib/hdwatch/cache")
			_ = os.Setenv("HDWATCH_WEBHOOK_URL", "https://example.test/hook")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PollIntervalSecs, convey.ShouldEqual, 60)
				convey.So(cfg.CachePath, convey.ShouldEqual, "/var/lib/hdwatch/cache")
				convey.So(cfg.WebhookURL, convey.ShouldEqual, "https://example.test/hook")
				// Untouched fields keep their defaults.
				convey.So(cfg.NotifyWorkerCount, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "hdwatch.yaml")
			yaml := "addr: \":7070\"\npoll_interval_secs: 120\nlog_level: debug\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o644), convey.ShouldBeNil)
			_ = os.Setenv("HDWATCH_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.PollIntervalSecs, convey.ShouldEqual, 120)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("HDWATCH_ADDR", ":6060")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.PollIntervalSecs, convey.ShouldEqual, 120)
			})
		})

		convey.Convey("When the config file is missing", func() {
			clearConfigEnvVars()
			_ = os.Setenv("HDWATCH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("HDWATCH_POLL_INTERVAL_SECS", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
