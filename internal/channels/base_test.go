package channels

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/huddlebot/huddlebot/internal/bus"
)

func testBase(allowFrom []string) (Base, *bus.MessageBus) {
	b := bus.NewMessageBus(10)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewBase(bus.ChannelTelegram, b, allowFrom, logger), b
}

func TestIsAllowedEmptyListAllowsEveryone(t *testing.T) {
	base, _ := testBase(nil)
	if !base.IsAllowed("12345|someone") {
		t.Fatal("empty allowlist should allow everyone")
	}
}

func TestIsAllowedMatchesIDOrUsername(t *testing.T) {
	base, _ := testBase([]string{"12345", "coach"})

	cases := []struct {
		sender string
		want   bool
	}{
		{"12345", true},
		{"12345|ignored", true},
		{"99|coach", true},
		{"99|stranger", false},
		{"stranger", false},
	}
	for _, tc := range cases {
		if got := base.IsAllowed(tc.sender); got != tc.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tc.sender, got, tc.want)
		}
	}
}

func TestHandleMessageDeniedSenderPublishesNothing(t *testing.T) {
	base, b := testBase([]string{"12345"})
	base.HandleMessage("99|stranger", "chat1", "hello", nil)
	select {
	case msg := <-b.Inbound:
		t.Fatalf("denied sender reached the bus: %+v", msg)
	default:
	}
}

func TestHandleMessagePublishesInbound(t *testing.T) {
	base, b := testBase(nil)
	base.HandleMessage("12345|coach", "chat1", "who won?", map[string]any{"message_id": 7})

	select {
	case msg := <-b.Inbound:
		if msg.Channel != bus.ChannelTelegram || msg.SenderID != "12345|coach" || msg.Content != "who won?" {
			t.Fatalf("unexpected inbound: %+v", msg)
		}
		if msg.Metadata["message_id"] != 7 {
			t.Fatalf("metadata not carried: %+v", msg.Metadata)
		}
	default:
		t.Fatal("nothing published")
	}
}

func TestSplitMessageShortContentIsOneChunk(t *testing.T) {
	chunks := splitMessage("short", 100)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestSplitMessagePrefersNewlineBreaks(t *testing.T) {
	content := strings.Repeat("line one\n", 5)
	chunks := splitMessage(content, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	for _, c := range chunks {
		if len(c) > 20 {
			t.Fatalf("chunk exceeds limit: %q", c)
		}
	}
}

func TestSplitMessageHardCutsUnbreakableRuns(t *testing.T) {
	content := strings.Repeat("x", 45)
	chunks := splitMessage(content, 20)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if total := len(chunks[0]) + len(chunks[1]) + len(chunks[2]); total != 45 {
		t.Fatalf("lost characters: %d", total)
	}
}
