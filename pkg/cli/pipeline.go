package cli

import (
	"context"
	"time"

	"github.com/briefwise/briefwise/pkg/cli/config"
	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/service/evidence"
	"github.com/briefwise/briefwise/pkg/service/source"
	"github.com/briefwise/briefwise/pkg/service/synth"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// baseConfig is shared by every command that touches the repository
type baseConfig struct {
	configPath string
	repo       config.Repository
}

func (x *baseConfig) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file (feeds, curated corpus, pipeline tunables)",
			Sources:     cli.EnvVars("BRIEFWISE_CONFIG"),
			Destination: &x.configPath,
		},
	}
	return append(flags, x.repo.Flags()...)
}

// open loads the configuration file and connects the repository. The returned
// closer releases the repository.
func (x *baseConfig) open(ctx context.Context) (*config.AppConfig, interfaces.Repository, func(), error) {
	appCfg, err := config.LoadAppConfiguration(x.configPath)
	if err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to load configuration")
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}

	closer := func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	}
	return appCfg, repo, closer, nil
}

// pipelineConfig holds everything needed to generate reports
type pipelineConfig struct {
	base          baseConfig
	llm           config.LLM
	web           config.Web
	storage       config.Storage
	slack         config.Slack
	reportTimeout time.Duration
}

func (x *pipelineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.base.Flags()...)
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.web.Flags()...)
	flags = append(flags, x.storage.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	flags = append(flags, &cli.DurationFlag{
		Name:        "report-timeout",
		Usage:       "Deadline for one report generation",
		Value:       usecase.DefaultReportTimeout,
		Sources:     cli.EnvVars("BRIEFWISE_REPORT_TIMEOUT"),
		Destination: &x.reportTimeout,
	})
	return flags
}

type runtime struct {
	app  *config.AppConfig
	repo interfaces.Repository
	uc   *usecase.UseCases
}

// build wires repository, adapters, aggregator, synthesizer and accounting
func (x *pipelineConfig) build(ctx context.Context) (*runtime, func(), error) {
	appCfg, repo, closeRepo, err := x.base.open(ctx)
	if err != nil {
		return nil, nil, err
	}

	closers := []func(){closeRepo}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	rt, err := x.wire(ctx, appCfg, repo, &closers)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return rt, cleanup, nil
}

func (x *pipelineConfig) wire(ctx context.Context, appCfg *config.AppConfig, repo interfaces.Repository, closers *[]func()) (*runtime, error) {
	llmClient, err := x.llm.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure LLM")
	}

	synthesizer, err := synth.New(llmClient, appCfg.Pipeline.SynthOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create synthesizer")
	}

	// A nil *source.Web must not become a non-nil interface value
	var web evidence.WebCollector
	if x.web.Enabled() {
		backend, err := x.web.ConfigureBackend(appCfg.Corpus)
		if err != nil {
			return nil, err
		}
		condenser, err := x.web.ConfigureCondenser(llmClient)
		if err != nil {
			return nil, err
		}
		webOpts := append(appCfg.Pipeline.WebOptions(), source.WithCondenser(condenser))
		web = source.NewWeb(backend, x.web.ConfigureFetcher(), webOpts...)
	}

	aggregator := evidence.New(
		source.NewFile(repo.Document()),
		web,
		source.NewLive(repo.Feed()),
		appCfg.Pipeline.AggregatorOptions()...,
	)

	notifier, err := x.slack.Configure()
	if err != nil {
		return nil, err
	}

	blobs, closeBlobs, err := x.storage.Configure(ctx)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, closeBlobs)

	ucOpts := appCfg.Pipeline.UseCaseOptions()
	ucOpts = append(ucOpts,
		usecase.WithNotifier(notifier),
		usecase.WithReportTimeout(x.reportTimeout),
	)
	if blobs != nil {
		ucOpts = append(ucOpts, usecase.WithBlobStore(blobs))
	}

	logging.Default().Info("Pipeline configured",
		"web", x.web,
		"storage", x.storage,
		"slack", x.slack,
		"feeds", len(appCfg.Feeds),
		"corpus", len(appCfg.Corpus),
	)

	return &runtime{
		app:  appCfg,
		repo: repo,
		uc:   usecase.New(repo, aggregator, synthesizer, ucOpts...),
	}, nil
}
