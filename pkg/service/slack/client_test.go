package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/service/slack"
	"github.com/m-mizutani/gt"
	goslack "github.com/slack-go/slack"
)

func newReport() *model.Report {
	return &model.Report{
		ID:               model.ReportID("rep-1"),
		Query:            "renewable energy market",
		Title:            "Renewable Energy Outlook",
		ExecutiveSummary: "Solar capacity keeps growing.",
		KeyInsights:      []string{"Solar leads", "Storage costs fall"},
		Confidence:       0.85,
		ProcessingTimeMS: 1234,
		SourceBreakdown:  model.SourceBreakdown{Files: 1, Web: 2, Live: 0},
		CreatedAt:        time.Now(),
	}
}

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C123")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates notifier when configured", func(t *testing.T) {
		n, err := slack.New("xoxb-test", "C123")
		gt.NoError(t, err).Required()
		gt.Value(t, n).NotNil()
	})
}

func TestNotifyReport(t *testing.T) {
	var gotChannel, gotBlocks, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat.postMessage") {
			http.NotFound(w, r)
			return
		}
		_ = r.ParseForm()
		gotChannel = r.FormValue("channel")
		gotBlocks = r.FormValue("blocks")
		gotText = r.FormValue("text")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"channel": "C123",
			"ts":      "1700000000.000100",
		})
	}))
	defer srv.Close()

	n, err := slack.New("xoxb-test", "C123",
		slack.WithAPIURL(srv.URL+"/"),
		slack.WithBaseURL("https://briefwise.example.com/"),
	)
	gt.NoError(t, err).Required()

	gt.NoError(t, n.NotifyReport(context.Background(), newReport())).Required()

	gt.Value(t, gotChannel).Equal("C123")
	gt.String(t, gotText).Contains("Renewable Energy Outlook")
	gt.String(t, gotBlocks).Contains("Solar capacity keeps growing.")
	gt.String(t, gotBlocks).Contains("https://briefwise.example.com/api/reports/rep-1")
}

func TestNotifyReport_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": "channel_not_found",
		})
	}))
	defer srv.Close()

	n, err := slack.New("xoxb-test", "C404", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	err = n.NotifyReport(context.Background(), newReport())
	gt.Value(t, err).NotNil()
}

func TestBuildReportBlocks(t *testing.T) {
	t.Run("lists at most five insights", func(t *testing.T) {
		report := newReport()
		report.KeyInsights = []string{"a", "b", "c", "d", "e", "f", "g"}

		blocks := slack.BuildReportBlocks(report, "")
		gt.Array(t, blocks).Length(4).Required()

		section, ok := blocks[2].(*goslack.SectionBlock)
		gt.Bool(t, ok).True()
		gt.String(t, section.Text.Text).Contains("_and 2 more_")
	})

	t.Run("omits empty summary and insights", func(t *testing.T) {
		report := newReport()
		report.ExecutiveSummary = ""
		report.KeyInsights = nil

		blocks := slack.BuildReportBlocks(report, "")
		gt.Array(t, blocks).Length(2)
	})
}

func TestTruncateToMaxBytes(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxBytes int
		want     string
	}{
		{name: "short string unchanged", input: "hello", maxBytes: 10, want: "hello"},
		{name: "ascii cut", input: "hello world", maxBytes: 5, want: "hello"},
		{name: "multi-byte rune not split", input: "日本語", maxBytes: 4, want: "日"},
		{name: "exact boundary", input: "日本語", maxBytes: 6, want: "日本"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, slack.TruncateToMaxBytes(tc.input, tc.maxBytes)).Equal(tc.want)
		})
	}
}

func TestNoop(t *testing.T) {
	var n slack.Notifier = slack.Noop{}
	gt.NoError(t, n.NotifyReport(context.Background(), newReport()))
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	channelID := os.Getenv("TEST_SLACK_CHANNEL_ID")
	if token == "" || channelID == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_CHANNEL_ID is not set")
	}

	n, err := slack.New(token, channelID)
	gt.NoError(t, err).Required()
	gt.NoError(t, n.NotifyReport(context.Background(), newReport()))
}
