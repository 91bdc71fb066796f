package slack

import (
	"context"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Notifier interface
type client struct {
	api       *slack.Client
	channelID string
	baseURL   string
	apiOpts   []slack.Option
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL sets the public URL of the service used to link reports
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithAPIURL overrides the Slack Web API endpoint. The URL must end with a slash.
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiOpts = append(c.apiOpts, slack.OptionAPIURL(url))
	}
}

// New creates a new Slack notifier with the provided bot token and destination channel
func New(token, channelID string, opts ...Option) (Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &client{
		channelID: channelID,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.api = slack.New(token, c.apiOpts...)

	return c, nil
}

// NotifyReport posts the report title, summary and breakdown to the channel
func (c *client) NotifyReport(ctx context.Context, report *model.Report) error {
	if report == nil {
		return goerr.New("report is nil")
	}

	blocks := BuildReportBlocks(report, c.baseURL)

	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallbackText(report), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post report notification",
			goerr.V("channel_id", c.channelID),
			goerr.V(model.ReportIDKey, report.ID))
	}
	return nil
}
