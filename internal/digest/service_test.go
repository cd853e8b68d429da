package digest

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/huddlebot/huddlebot/internal/bus"
)

type stubDigester struct {
	digests map[string]string
}

func (s *stubDigester) RunDigests(context.Context) map[string]string {
	return s.digests
}

func TestSweepRoutesToChatChannelsOnly(t *testing.T) {
	b := bus.NewMessageBus(10)
	d := &stubDigester{digests: map[string]string{
		"telegram:42": "🩹 Kelce is questionable.",
		"web:default": "should be dropped",
		"cli:local":   "should be dropped",
	}}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewService(d, b, 50*time.Millisecond, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = svc.Start(ctx)

	select {
	case msg := <-b.Outbound:
		if msg.Channel != bus.ChannelTelegram || msg.ChatID != "42" {
			t.Fatalf("routed to %s:%s", msg.Channel, msg.ChatID)
		}
		if msg.Content != "🩹 Kelce is questionable." {
			t.Fatalf("content = %q", msg.Content)
		}
	default:
		t.Fatal("no outbound digest published")
	}

	// Web and CLI users never reach the bus.
	for {
		select {
		case msg := <-b.Outbound:
			if msg.Channel == bus.ChannelWeb || msg.Channel == bus.ChannelCLI {
				t.Fatalf("digest leaked to %s", msg.Channel)
			}
		default:
			return
		}
	}
}
