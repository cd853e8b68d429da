package channels

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/huddlebot/huddlebot/internal/bus"
	"github.com/huddlebot/huddlebot/internal/config"
)

// SlackChannel is the Slack surface, using Socket Mode so no public inbound
// endpoint is needed.
type SlackChannel struct {
	Base
	cfg       *config.SlackConfig
	webClient *slackgo.Client
	smClient  *socketmode.Client
	botUserID string
}

// NewSlackChannel creates a SlackChannel.
func NewSlackChannel(cfg *config.SlackConfig, b *bus.MessageBus, logger *slog.Logger) *SlackChannel {
	return &SlackChannel{
		Base: NewBase(bus.ChannelSlack, b, cfg.AllowFrom, logger),
		cfg:  cfg,
	}
}

func (s *SlackChannel) Name() string { return "slack" }

func (s *SlackChannel) Start(ctx context.Context) error {
	if s.cfg.BotToken == "" || s.cfg.AppToken == "" {
		s.logger.Warn("slack bot/app token not configured")
		<-ctx.Done()
		return ctx.Err()
	}

	s.webClient = slackgo.New(s.cfg.BotToken, slackgo.OptionAppLevelToken(s.cfg.AppToken))
	if resp, err := s.webClient.AuthTestContext(ctx); err == nil {
		s.botUserID = resp.UserID
		s.logger.Info("slack connected", "bot_user_id", s.botUserID)
	}

	s.smClient = socketmode.New(s.webClient)
	go s.smClient.RunContext(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			s.handleEvent(evt)
		}
	}
}

func (s *SlackChannel) handleEvent(evt socketmode.Event) {
	if evt.Type != socketmode.EventTypeEventsAPI {
		return
	}
	s.smClient.Ack(*evt.Request)
	cb, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	if cb.InnerEvent.Type != "message" && cb.InnerEvent.Type != "app_mention" {
		return
	}

	// Inner event data arrives as a raw map.
	data, ok := cb.InnerEvent.Data.(map[string]interface{})
	if !ok {
		return
	}
	userID, _ := data["user"].(string)
	channel, _ := data["channel"].(string)
	text, _ := data["text"].(string)
	subtype, _ := data["subtype"].(string)
	channelType, _ := data["channel_type"].(string)
	ts, _ := data["ts"].(string)

	if subtype != "" || userID == "" || channel == "" || userID == s.botUserID {
		return
	}
	// In channels only respond to mentions; DMs always respond.
	if channelType != "im" {
		if s.botUserID == "" || !strings.Contains(text, "<@"+s.botUserID+">") {
			return
		}
	}

	s.HandleMessage(userID, channel, s.stripMention(text), map[string]any{
		"ts": ts,
	})
}

func (s *SlackChannel) stripMention(text string) string {
	if s.botUserID == "" {
		return text
	}
	re := regexp.MustCompile(`<@` + regexp.QuoteMeta(s.botUserID) + `>\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

func (s *SlackChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if s.webClient == nil {
		return nil
	}
	// Progress updates are dropped; Slack has no lightweight typing signal
	// over the web API.
	if msg.IsProgress() || msg.Content == "" {
		return nil
	}

	_, _, err := s.webClient.PostMessageContext(ctx, msg.ChatID,
		slackgo.MsgOptionText(msg.Content, false))
	return err
}
