package config

import (
	"log/slog"

	"github.com/briefwise/briefwise/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for report-ready notifications
type Slack struct {
	botToken  string
	channelID string
	baseURL   string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Category:    "Slack",
			Usage:       "Slack Bot User OAuth Token (notifications are disabled when empty)",
			Sources:     cli.EnvVars("BRIEFWISE_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Category:    "Slack",
			Usage:       "Slack channel ID that receives report notifications",
			Sources:     cli.EnvVars("BRIEFWISE_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Category:    "Slack",
			Usage:       "Public base URL of this service, used for report links",
			Sources:     cli.EnvVars("BRIEFWISE_BASE_URL"),
			Destination: &x.baseURL,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if notifications are enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure creates the notifier, or slack.Noop when no token is set
func (x *Slack) Configure() (slack.Notifier, error) {
	if !x.IsConfigured() {
		return slack.Noop{}, nil
	}
	if x.channelID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "--slack-channel-id is required with --slack-bot-token")
	}

	var opts []slack.Option
	if x.baseURL != "" {
		opts = append(opts, slack.WithBaseURL(x.baseURL))
	}

	notifier, err := slack.New(x.botToken, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure slack notifier")
	}
	return notifier, nil
}
