package cli

import (
	"context"
	"time"

	"github.com/briefwise/briefwise/pkg/service/feed"
	"github.com/briefwise/briefwise/pkg/service/worker"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdIngest() *cli.Command {
	var timeout time.Duration
	var base baseConfig

	flags := []cli.Flag{
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Deadline for polling all feeds",
			Value:       time.Minute,
			Sources:     cli.EnvVars("BRIEFWISE_INGEST_TIMEOUT"),
			Destination: &timeout,
		},
	}
	flags = append(flags, base.Flags()...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Poll configured feeds once and store their entries",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, repo, closer, err := base.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if len(appCfg.Feeds) == 0 {
				logging.Default().Warn("No feeds configured, nothing to ingest")
				return nil
			}

			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			// interval is unused for a single refresh
			w := worker.NewFeedRefreshWorker(repo, feed.NewPoller(appCfg.FeedSources()), 0)
			n, err := w.Refresh(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to ingest feeds")
			}

			logging.Default().Info("Feeds ingested", "feeds", len(appCfg.Feeds), "entries", n)
			return nil
		},
	}
}
