// Package bus decouples chat surfaces from the agent core. Surfaces push
// InboundMessages; the agent loop consumes them, runs the turn, and pushes
// OutboundMessages back for the channel manager to route.
package bus

import (
	"strings"
	"time"
)

// Channel names a message surface.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelSlack    Channel = "slack"
	ChannelWeb      Channel = "web"
	ChannelCLI      Channel = "cli"
	ChannelDigest   Channel = "digest"
)

// RoutingKey builds the "channel:chat_id" key that identifies a conversation
// across the system. It doubles as the per-user state key.
func RoutingKey(channel Channel, chatID string) string {
	if chatID == "" {
		return string(channel)
	}
	return string(channel) + ":" + chatID
}

// ParseRoutingKey splits a routing key into channel and chat ID.
func ParseRoutingKey(key string) (channel Channel, chatID string) {
	if i := strings.Index(key, ":"); i >= 0 {
		return Channel(key[:i]), key[i+1:]
	}
	return Channel(key), ""
}

// InboundMessage is a message received from a chat surface.
type InboundMessage struct {
	Channel   Channel
	SenderID  string // user identifier within the channel
	ChatID    string // chat / DM identifier
	Content   string
	Timestamp time.Time
	Metadata  map[string]any // channel-specific extras (message_id, username, …)
}

// NewInboundMessage creates an InboundMessage with Timestamp set to now.
func NewInboundMessage(channel Channel, senderID, chatID, content string) InboundMessage {
	return InboundMessage{
		Channel:   channel,
		SenderID:  senderID,
		ChatID:    chatID,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// SessionKey returns the key used to look up the conversation state.
func (m InboundMessage) SessionKey() string {
	return RoutingKey(m.Channel, m.ChatID)
}

// ContentPreview returns a short snippet for logging.
func (m InboundMessage) ContentPreview() string {
	preview := m.Content
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	return preview
}

// OutboundMessage is a response to be delivered through a surface.
type OutboundMessage struct {
	Channel  Channel
	ChatID   string
	Content  string
	ReplyTo  string         // original message ID to reply to (optional)
	Metadata map[string]any // channel-specific hints (_progress, parse_mode, …)
}

// NewOutboundMessage creates an OutboundMessage.
func NewOutboundMessage(channel Channel, chatID, content string) OutboundMessage {
	return OutboundMessage{Channel: channel, ChatID: chatID, Content: content}
}

// IsProgress reports whether the message is a transient tool-activity update
// rather than a final reply. Surfaces may render these as typing indicators
// or skip them entirely.
func (m OutboundMessage) IsProgress() bool {
	v, _ := m.Metadata["_progress"].(bool)
	return v
}

// MessageBus carries both directions on buffered channels so senders never
// block on a slow consumer.
type MessageBus struct {
	Inbound  chan InboundMessage  // surfaces → agent
	Outbound chan OutboundMessage // agent → surfaces
}

// NewMessageBus creates a MessageBus with the given buffer size per direction.
func NewMessageBus(bufSize int) *MessageBus {
	return &MessageBus{
		Inbound:  make(chan InboundMessage, bufSize),
		Outbound: make(chan OutboundMessage, bufSize),
	}
}

// PublishInbound enqueues a message for the agent.
func (b *MessageBus) PublishInbound(msg InboundMessage) {
	b.Inbound <- msg
}

// PublishOutbound enqueues a response for delivery.
func (b *MessageBus) PublishOutbound(msg OutboundMessage) {
	b.Outbound <- msg
}
