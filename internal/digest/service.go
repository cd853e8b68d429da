// Package digest pushes periodic injury digests to chat channels.
package digest

import (
	"context"
	"log/slog"
	"time"

	"github.com/huddlebot/huddlebot/internal/bus"
)

// Digester produces per-user digest texts keyed by routing key.
type Digester interface {
	RunDigests(ctx context.Context) map[string]string
}

// Service periodically sweeps known users and publishes any digests to the
// outbound bus. Users on request/response surfaces (web, CLI) are skipped;
// there is no conversation to push into.
type Service struct {
	digester Digester
	bus      *bus.MessageBus
	interval time.Duration
	logger   *slog.Logger
}

// NewService creates a digest service. interval defaults to an hour if zero.
func NewService(digester Digester, b *bus.MessageBus, interval time.Duration, logger *slog.Logger) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		digester: digester,
		bus:      b,
		interval: interval,
		logger:   logger.With("component", "digest"),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("digest sweeps started", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			s.logger.Info("digest sweeps stopped")
			return ctx.Err()
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	digests := s.digester.RunDigests(ctx)
	for userID, text := range digests {
		channel, chatID := bus.ParseRoutingKey(userID)
		if chatID == "" || channel == bus.ChannelWeb || channel == bus.ChannelCLI {
			continue
		}
		s.bus.PublishOutbound(bus.NewOutboundMessage(channel, chatID, text))
		s.logger.Info("published digest", "user", userID, "channel", channel)
	}
}
