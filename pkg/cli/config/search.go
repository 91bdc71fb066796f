package config

import (
	"log/slog"
	"time"

	"github.com/briefwise/briefwise/pkg/service/fetch"
	"github.com/briefwise/briefwise/pkg/service/search"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/urfave/cli/v3"
)

// Web holds CLI flags for the web channel: discovery backend, page fetching
// and condensing
type Web struct {
	backend     string
	braveAPIKey string
	braveRate   time.Duration
	fetchRate   time.Duration
	userAgent   string
	condenser   string
}

// Flags returns CLI flags for web channel configuration
func (x *Web) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "search-backend",
			Category:    "Web",
			Usage:       "Web search backend (curated, brave, none)",
			Value:       "curated",
			Sources:     cli.EnvVars("BRIEFWISE_SEARCH_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "brave-api-key",
			Category:    "Web",
			Usage:       "Brave Search API key",
			Sources:     cli.EnvVars("BRIEFWISE_BRAVE_API_KEY"),
			Destination: &x.braveAPIKey,
		},
		&cli.DurationFlag{
			Name:        "brave-rate",
			Category:    "Web",
			Usage:       "Minimum interval between Brave Search requests",
			Value:       time.Second,
			Sources:     cli.EnvVars("BRIEFWISE_BRAVE_RATE"),
			Destination: &x.braveRate,
		},
		&cli.DurationFlag{
			Name:        "fetch-rate",
			Category:    "Web",
			Usage:       "Minimum interval between page fetches (0 for no pacing)",
			Sources:     cli.EnvVars("BRIEFWISE_FETCH_RATE"),
			Destination: &x.fetchRate,
		},
		&cli.StringFlag{
			Name:        "fetch-user-agent",
			Category:    "Web",
			Usage:       "User-Agent header for page fetches",
			Sources:     cli.EnvVars("BRIEFWISE_FETCH_USER_AGENT"),
			Destination: &x.userAgent,
		},
		&cli.StringFlag{
			Name:        "condenser",
			Category:    "Web",
			Usage:       "How fetched pages are condensed (truncate, llm)",
			Value:       "truncate",
			Sources:     cli.EnvVars("BRIEFWISE_CONDENSER"),
			Destination: &x.condenser,
		},
	}
}

func (x Web) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.Int("brave-api-key.len", len(x.braveAPIKey)),
		slog.String("condenser", x.condenser),
	)
}

// Enabled reports whether a search backend is configured
func (x *Web) Enabled() bool {
	return x.backend != "none"
}

// ConfigureBackend creates the search backend. corpus feeds the curated backend.
func (x *Web) ConfigureBackend(corpus []search.Result) (search.Backend, error) {
	switch x.backend {
	case "", "curated":
		return search.NewCurated(corpus), nil

	case "brave":
		opts := []search.BraveOption{}
		if x.braveRate > 0 {
			opts = append(opts, search.WithBraveRate(x.braveRate))
		}
		backend, err := search.NewBrave(x.braveAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure brave search")
		}
		return backend, nil

	case "none":
		return nil, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid search backend", goerr.V(ValueKey, x.backend))
	}
}

// ConfigureFetcher creates the page fetcher
func (x *Web) ConfigureFetcher() fetch.Fetcher {
	var opts []fetch.HTTPOption
	if x.fetchRate > 0 {
		opts = append(opts, fetch.WithRate(x.fetchRate, 1))
	}
	if x.userAgent != "" {
		opts = append(opts, fetch.WithUserAgent(x.userAgent))
	}
	return fetch.NewHTTP(opts...)
}

// ConfigureCondenser creates the condenser. llmClient is only used by the llm condenser.
func (x *Web) ConfigureCondenser(llmClient gollem.LLMClient) (fetch.Condenser, error) {
	switch x.condenser {
	case "", "truncate":
		return fetch.Truncate{}, nil

	case "llm":
		c, err := fetch.NewLLMCondenser(llmClient)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure llm condenser")
		}
		return c, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid condenser", goerr.V(ValueKey, x.condenser))
	}
}
