package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/huddlebot/huddlebot/internal/bus"
)

const helpText = `I'm huddlebot 🏈 — ask me about NFL scores, stats, play-by-play, news, injuries, fantasy rosters, route analysis, diagrams, or highlight videos.

Commands:
/reset — clear our conversation history (your fantasy context survives)
/help — this message`

// Loop consumes inbound messages from the bus, runs the turn pipeline, and
// publishes replies. Each message is handled in its own goroutine so one slow
// turn never stalls another surface.
type Loop struct {
	bus     *bus.MessageBus
	service *Service
	logger  *slog.Logger
}

// NewLoop wires the bus consumer.
func NewLoop(b *bus.MessageBus, service *Service, logger *slog.Logger) *Loop {
	return &Loop{bus: b, service: service, logger: logger.With("component", "loop")}
}

// Run blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("agent loop started")
	for {
		select {
		case msg := <-l.bus.Inbound:
			go l.handle(ctx, msg)
		case <-ctx.Done():
			l.logger.Info("agent loop stopping")
			return ctx.Err()
		}
	}
}

func (l *Loop) handle(ctx context.Context, msg bus.InboundMessage) {
	userID := msg.SessionKey()
	l.logger.Info("inbound message", "user", userID, "preview", msg.ContentPreview())

	if reply, handled := l.slashCommand(userID, msg.Content); handled {
		l.reply(msg, reply, nil)
		return
	}

	onProgress := func(tool string) {
		out := bus.NewOutboundMessage(msg.Channel, msg.ChatID, "⚙️ "+tool)
		out.Metadata = map[string]any{"_progress": true}
		l.bus.PublishOutbound(out)
	}

	result, err := l.service.HandleTurn(ctx, userID, msg.Content, onProgress)
	if err != nil {
		l.logger.Error("turn failed", "user", userID, "error", err)
		l.reply(msg, "Sorry, I couldn't reach the model just now. Try again in a moment.", msg.Metadata)
		return
	}
	l.reply(msg, result.Text, msg.Metadata)
}

// slashCommand handles the surface-independent commands, returning the reply
// text and whether the message was a command.
func (l *Loop) slashCommand(userID, content string) (string, bool) {
	switch strings.TrimSpace(strings.ToLower(content)) {
	case "/reset":
		if err := l.service.Reset(userID); err != nil {
			l.logger.Error("reset failed", "user", userID, "error", err)
			return "Couldn't clear the history, sorry.", true
		}
		return "History cleared. Your fantasy context is still here — what's next? 🏈", true
	case "/help", "//help":
		return helpText, true
	}
	return "", false
}

func (l *Loop) reply(msg bus.InboundMessage, text string, metadata map[string]any) {
	out := bus.NewOutboundMessage(msg.Channel, msg.ChatID, text)
	out.ReplyTo, _ = metadataString(metadata, "message_id")
	out.Metadata = metadata
	l.bus.PublishOutbound(out)
}

func metadataString(md map[string]any, key string) (string, bool) {
	s, ok := md[key].(string)
	return s, ok
}
