package channels

import (
	"context"
	"log/slog"

	"github.com/huddlebot/huddlebot/internal/bus"
	"github.com/huddlebot/huddlebot/internal/config"
)

// Manager owns the enabled channels and routes outbound messages to them.
type Manager struct {
	channels map[bus.Channel]Channel
	bus      *bus.MessageBus
	logger   *slog.Logger
}

// NewManager creates a Manager with every config-enabled channel registered.
func NewManager(cfg *config.Config, b *bus.MessageBus, logger *slog.Logger) *Manager {
	m := &Manager{
		channels: make(map[bus.Channel]Channel),
		bus:      b,
		logger:   logger.With("component", "channels"),
	}

	if cfg.Channels.Telegram.Enabled {
		m.channels[bus.ChannelTelegram] = NewTelegramChannel(&cfg.Channels.Telegram, b, logger)
		m.logger.Info("channel enabled", "name", "telegram")
	}
	if cfg.Channels.Slack.Enabled {
		m.channels[bus.ChannelSlack] = NewSlackChannel(&cfg.Channels.Slack, b, logger)
		m.logger.Info("channel enabled", "name", "slack")
	}
	return m
}

// EnabledChannels returns the names of the registered channels.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, string(n))
	}
	return names
}

// StartAll starts every channel plus the outbound dispatcher and blocks until
// ctx is cancelled.
func (m *Manager) StartAll(ctx context.Context) error {
	go m.dispatchOutbound(ctx)

	for name, ch := range m.channels {
		go func(n bus.Channel, c Channel) {
			m.logger.Info("starting channel", "name", n)
			if err := c.Start(ctx); err != nil && ctx.Err() == nil {
				m.logger.Error("channel exited with error", "name", n, "error", err)
			}
		}(name, ch)
	}

	<-ctx.Done()
	return ctx.Err()
}

// Deliver routes one outbound message to its channel, if registered.
// Used by the digest service alongside the bus path.
func (m *Manager) Deliver(ctx context.Context, msg bus.OutboundMessage) {
	ch, ok := m.channels[msg.Channel]
	if !ok {
		m.logger.Debug("no channel for outbound message", "channel", msg.Channel)
		return
	}
	if err := ch.Send(ctx, msg); err != nil {
		m.logger.Error("send failed", "channel", msg.Channel, "error", err)
	}
}

func (m *Manager) dispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-m.bus.Outbound:
			m.Deliver(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}
