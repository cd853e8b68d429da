// Package channels provides the chat-platform surfaces: Telegram and Slack.
package channels

import (
	"context"
	"log/slog"
	"strings"

	"github.com/huddlebot/huddlebot/internal/bus"
)

// Channel is one chat surface: it receives platform messages and delivers
// outbound replies.
type Channel interface {
	Name() string
	// Start runs the receive loop until ctx is cancelled.
	Start(ctx context.Context) error
	// Send delivers one outbound message.
	Send(ctx context.Context, msg bus.OutboundMessage) error
}

// Base holds state and helpers shared by all channels.
type Base struct {
	channelName bus.Channel
	bus         *bus.MessageBus
	allowFrom   []string // empty = allow all
	logger      *slog.Logger
}

// NewBase creates a Base with the given channel name, bus, and allowlist.
func NewBase(name bus.Channel, b *bus.MessageBus, allowFrom []string, logger *slog.Logger) Base {
	return Base{
		channelName: name,
		bus:         b,
		allowFrom:   allowFrom,
		logger:      logger.With("channel", string(name)),
	}
}

// IsAllowed checks whether senderID is on the allowlist.
// senderID may be "id|username" (Telegram) or a plain string.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, allowed := range b.allowFrom {
		if allowed == senderID {
			return true
		}
	}
	if strings.Contains(senderID, "|") {
		for _, part := range strings.Split(senderID, "|") {
			if part == "" {
				continue
			}
			for _, allowed := range b.allowFrom {
				if allowed == part {
					return true
				}
			}
		}
	}
	return false
}

// HandleMessage verifies the sender is allowed, then pushes an InboundMessage
// onto the bus.
func (b *Base) HandleMessage(senderID, chatID, content string, metadata map[string]any) {
	if !b.IsAllowed(senderID) {
		b.logger.Warn("access denied", "sender", senderID)
		return
	}
	msg := bus.NewInboundMessage(b.channelName, senderID, chatID, content)
	msg.Metadata = metadata
	b.bus.PublishInbound(msg)
}

// splitMessage splits content into chunks that fit within maxLen, preferring
// newline breaks, then space breaks, then a hard cut.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t")
	}
	return chunks
}
