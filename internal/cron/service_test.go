package cron

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAddRejectsBadSpec(t *testing.T) {
	s := NewService(testLogger())
	if err := s.Add("not a schedule", "bad", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected an error for an invalid spec")
	}
}

func TestJobRunsOnSchedule(t *testing.T) {
	s := NewService(testLogger())
	var fired atomic.Int32
	if err := s.Add("@every 100ms", "tick", func(context.Context) error {
		fired.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = s.Start(ctx)

	if fired.Load() == 0 {
		t.Fatal("job never fired")
	}
}
