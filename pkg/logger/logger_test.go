package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	l := Get()
	if l == nil {
		t.Fatal("expected a logger")
	}

	// Named loggers and all levels must be callable without panicking.
	n := l.Named("test")
	ctx := context.Background()
	n.Debug(ctx, "debug", String("k", "v"))
	n.Info(ctx, "info", Int("n", 1), Uint32("u", 2))
	n.Warn(ctx, "warn", Float64("f", 1.5))
	n.Error(ctx, "error", Error(nil), Any("x", struct{}{}))
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", "DEBUG", " Info "} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("expected %q to parse, got %v", level, err)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected unknown level to be rejected")
	}

	SetLevel(slog.LevelInfo)
	if levelVar.Level() != slog.LevelInfo {
		t.Errorf("expected info level, got %v", levelVar.Level())
	}
}
