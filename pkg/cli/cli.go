package cli

import (
	"context"

	"github.com/briefwise/briefwise/pkg/cli/config"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "briefwise",
		Usage:   "Evidence-grounded research reports from documents, the web and live feeds",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLogger, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLogger)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Info("Starting briefwise",
				"version", version,
				"logger", loggerCfg,
				"sentry", sentryCfg)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdResearch(),
			cmdIngest(),
			cmdCredits(),
			cmdValidate(),
			cmdMigrate(),
		},
	}

	// Closers run after the final error is logged and reported
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	if err := app.Run(ctx, args); err != nil {
		_ = errutil.Handle(ctx, err, "failed to run app")
		return err
	}

	return nil
}
