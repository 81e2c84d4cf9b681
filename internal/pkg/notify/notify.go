package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// Notifier delivers operational alerts such as days left open by a forgotten punch.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type SlackNotifier struct {
	client    slackPoster
	channelID string
}

// New returns a NopNotifier when no Slack token or channel is configured.
func New(cfg SlackConfig) Notifier {
	if cfg.BotToken == "" || cfg.ChannelID == "" {
		slog.Info("Slack notifications disabled")
		return NopNotifier{}
	}
	return &SlackNotifier{client: slack.New(cfg.BotToken), channelID: cfg.ChannelID}
}

func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) error { return nil }
