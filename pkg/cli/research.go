package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdResearch() *cli.Command {
	var userID string
	var query string
	var noFiles, noWeb, noLive bool
	var pipeline pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID that owns and pays for the report",
			Value:       "local",
			Sources:     cli.EnvVars("BRIEFWISE_USER"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Research question",
			Required:    true,
			Destination: &query,
		},
		&cli.BoolFlag{
			Name:        "no-files",
			Usage:       "Do not search uploaded documents",
			Destination: &noFiles,
		},
		&cli.BoolFlag{
			Name:        "no-web",
			Usage:       "Do not search the web",
			Destination: &noWeb,
		},
		&cli.BoolFlag{
			Name:        "no-live",
			Usage:       "Do not search recent feed entries",
			Destination: &noLive,
		},
	}
	flags = append(flags, pipeline.Flags()...)

	return &cli.Command{
		Name:    "research",
		Aliases: []string{"r"},
		Usage:   "Generate one report and print it",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, cleanup, err := pipeline.build(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := rt.uc.Report.Generate(ctx, usecase.GenerateInput{
				UserID:       userID,
				Query:        query,
				IncludeFiles: !noFiles,
				IncludeWeb:   !noWeb,
				IncludeLive:  !noLive,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to generate report")
			}

			user, err := rt.uc.User.Get(ctx, userID)
			if err != nil {
				return err
			}

			printReport(c.Root().Writer, report, user.Credits)
			return nil
		},
	}
}

func printReport(w io.Writer, report *model.Report, remaining int) {
	heading := color.New(color.FgCyan, color.Bold)
	label := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = heading.Fprintln(w, report.Title)
	_, _ = faint.Fprintf(w, "report %s\n\n", report.ID)

	_, _ = label.Fprintln(w, "Summary")
	_, _ = fmt.Fprintf(w, "%s\n\n", report.ExecutiveSummary)

	if len(report.KeyInsights) > 0 {
		_, _ = label.Fprintln(w, "Key insights")
		for i, insight := range report.KeyInsights {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, insight)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(report.Citations) > 0 {
		_, _ = label.Fprintln(w, "Citations")
		for _, cite := range report.Citations {
			_, _ = fmt.Fprintf(w, "  [%d] %s (%s, relevance %.2f)\n",
				cite.ID, cite.Source.Title, cite.Source.Channel, cite.Relevance)
			if cite.Source.Locator != "" {
				_, _ = faint.Fprintf(w, "      %s\n", cite.Source.Locator)
			}
		}
		_, _ = fmt.Fprintln(w)
	}

	confidence := color.New(color.FgGreen)
	switch {
	case report.Confidence < 0.5:
		confidence = color.New(color.FgRed)
	case report.Confidence < 0.75:
		confidence = color.New(color.FgYellow)
	}

	b := report.SourceBreakdown
	_, _ = fmt.Fprint(w, "confidence ")
	_, _ = confidence.Fprintf(w, "%.2f", report.Confidence)
	_, _ = fmt.Fprintf(w, " | sources files=%d web=%d live=%d | %dms | cost %d | %d credits left\n",
		b.Files, b.Web, b.Live, report.ProcessingTimeMS, report.Cost, remaining)
}
