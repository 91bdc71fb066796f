package slack

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	// maxSectionTextBytes is the Block Kit limit for section text
	maxSectionTextBytes = 3000
	// maxHeaderTextBytes is the Block Kit limit for header text
	maxHeaderTextBytes = 150
	// maxInsights caps how many key insights are listed in a notification
	maxInsights = 5
)

// BuildReportBlocks builds the Block Kit message announcing a finished report
func BuildReportBlocks(report *model.Report, baseURL string) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, truncateToMaxBytes("Report ready: "+report.Title, maxHeaderTextBytes), true, false),
		),
	}

	if report.ExecutiveSummary != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(report.ExecutiveSummary, maxSectionTextBytes), false, false),
			nil, nil,
		))
	}

	if len(report.KeyInsights) > 0 {
		var b strings.Builder
		for i, insight := range report.KeyInsights {
			if i >= maxInsights {
				fmt.Fprintf(&b, "_and %d more_\n", len(report.KeyInsights)-maxInsights)
				break
			}
			b.WriteString("• " + insight + "\n")
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(b.String(), maxSectionTextBytes), false, false),
			nil, nil,
		))
	}

	bd := report.SourceBreakdown
	contextText := fmt.Sprintf("*Query:* %s | *Sources:* %d files, %d web, %d live | *Confidence:* %.0f%% | %dms",
		report.Query, bd.Files, bd.Web, bd.Live, report.Confidence*100, report.ProcessingTimeMS)
	if baseURL != "" {
		contextText += fmt.Sprintf(" | <%s/api/reports/%s|Open>", strings.TrimRight(baseURL, "/"), report.ID)
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(contextText, maxSectionTextBytes), false, false),
	))

	return blocks
}

func fallbackText(report *model.Report) string {
	return "Report ready: " + report.Title
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
