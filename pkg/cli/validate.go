package cli

import (
	"context"

	"github.com/briefwise/briefwise/pkg/cli/config"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to TOML configuration file",
				Required:    true,
				Sources:     cli.EnvVars("BRIEFWISE_CONFIG"),
				Destination: &configPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			appCfg, err := config.LoadAppConfiguration(configPath)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			for _, f := range appCfg.Feeds {
				logger.Info("Feed validated", "id", f.ID, "name", f.Name, "url", f.URL)
			}
			logger.Info("Configuration validation passed",
				"feed_count", len(appCfg.Feeds),
				"corpus_count", len(appCfg.Corpus),
			)
			return nil
		},
	}
}
