package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpctrl "github.com/briefwise/briefwise/pkg/controller/http"
	"github.com/briefwise/briefwise/pkg/service/feed"
	"github.com/briefwise/briefwise/pkg/service/worker"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var feedInterval time.Duration
	var maxBodySize int64
	var pipeline pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BRIEFWISE_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "feed-interval",
			Usage:       "Interval between feed polls (only used when feeds are configured)",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("BRIEFWISE_FEED_INTERVAL"),
			Destination: &feedInterval,
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Usage:       "Maximum request body size in bytes",
			Value:       httpctrl.DefaultMaxBodySize,
			Sources:     cli.EnvVars("BRIEFWISE_MAX_BODY_SIZE"),
			Destination: &maxBodySize,
		},
	}
	flags = append(flags, pipeline.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, cleanup, err := pipeline.build(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var feedWorker *worker.FeedRefreshWorker
			if len(rt.app.Feeds) > 0 {
				poller := feed.NewPoller(rt.app.FeedSources())
				feedWorker = worker.NewFeedRefreshWorker(rt.repo, poller, feedInterval)
				if err := feedWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start feed refresh worker")
				}
			} else {
				logging.Default().Info("No feeds configured, live channel relies on previously ingested entries")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(rt.uc, httpctrl.WithMaxBodySize(maxBodySize)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			var runErr error
			select {
			case runErr = <-errCh:
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			}

			if feedWorker != nil {
				feedWorker.Stop()
			}
			if runErr != nil {
				return runErr
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
