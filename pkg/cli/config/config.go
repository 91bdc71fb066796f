package config

import (
	"net/url"
	"os"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/service/evidence"
	"github.com/briefwise/briefwise/pkg/service/feed"
	"github.com/briefwise/briefwise/pkg/service/search"
	"github.com/briefwise/briefwise/pkg/service/source"
	"github.com/briefwise/briefwise/pkg/service/synth"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig represents the application configuration
type AppConfig struct {
	Pipeline Pipeline        `toml:"pipeline"`
	Feeds    []Feed          `toml:"feed"`
	Corpus   []search.Result `toml:"corpus"`
}

// Pipeline holds report generation tunables. Zero values fall back to defaults.
type Pipeline struct {
	WebLimit          int `toml:"web_limit"`
	LiveWindowMinutes int `toml:"live_window_minutes"`
	ReportCost        int `toml:"report_cost"`
	InitialCredits    int `toml:"initial_credits"`
	ExcerptLength     int `toml:"excerpt_length"`
	CondenseLength    int `toml:"condense_length"`
	WebParallelism    int `toml:"web_parallelism"`
}

// Feed is one RSS or Atom source for the live channel
type Feed struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Validate checks if the Feed is valid
func (f *Feed) Validate() error {
	if err := types.FeedID(f.ID).Validate(); err != nil {
		return goerr.Wrap(ErrInvalidFeedID, err.Error(), goerr.V(FeedIDKey, f.ID))
	}
	if f.Name == "" {
		return goerr.Wrap(ErrMissingName, "feed name is required", goerr.V(FeedIDKey, f.ID))
	}
	if err := validateURL(f.URL); err != nil {
		return goerr.Wrap(err, "invalid feed URL", goerr.V(FeedIDKey, f.ID))
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return goerr.Wrap(ErrInvalidURL, "URL must be absolute http(s)", goerr.V(ValueKey, raw))
	}
	return nil
}

func nonNegative(field string, v int) error {
	if v < 0 {
		return goerr.Wrap(ErrOutOfRange, "value must not be negative",
			goerr.V(FieldKey, field), goerr.V(ValueKey, v))
	}
	return nil
}

// Validate checks if the Pipeline is valid
func (p *Pipeline) Validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"web_limit", p.WebLimit},
		{"live_window_minutes", p.LiveWindowMinutes},
		{"report_cost", p.ReportCost},
		{"initial_credits", p.InitialCredits},
		{"excerpt_length", p.ExcerptLength},
		{"condense_length", p.CondenseLength},
		{"web_parallelism", p.WebParallelism},
	} {
		if err := nonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.Pipeline.Validate(); err != nil {
		return goerr.Wrap(err, "invalid pipeline")
	}

	feedIDs := make(map[string]bool)
	for _, f := range a.Feeds {
		if err := f.Validate(); err != nil {
			return goerr.Wrap(err, "invalid feed")
		}
		if feedIDs[f.ID] {
			return goerr.Wrap(ErrDuplicateFeedID, "duplicate feed ID", goerr.V(FeedIDKey, f.ID))
		}
		feedIDs[f.ID] = true
	}

	for i, entry := range a.Corpus {
		if entry.Title == "" {
			return goerr.Wrap(ErrMissingTitle, "corpus entry title is required", goerr.V(CorpusIndexKey, i))
		}
		if err := validateURL(entry.Locator); err != nil {
			return goerr.Wrap(err, "invalid corpus entry", goerr.V(CorpusIndexKey, i))
		}
	}

	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file.
// An empty path yields the default configuration.
func LoadAppConfiguration(path string) (*AppConfig, error) {
	if path == "" {
		return &AppConfig{}, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// FeedSources converts the configured feeds for the poller
func (a *AppConfig) FeedSources() []feed.Source {
	sources := make([]feed.Source, len(a.Feeds))
	for i, f := range a.Feeds {
		sources[i] = feed.Source{
			ID:   types.FeedID(f.ID),
			Name: f.Name,
			URL:  f.URL,
		}
	}
	return sources
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// AggregatorOptions returns evidence aggregator options from the pipeline section
func (p *Pipeline) AggregatorOptions() []evidence.Option {
	return []evidence.Option{
		evidence.WithWebLimit(orDefault(p.WebLimit, evidence.DefaultWebLimit)),
		evidence.WithLiveWindow(time.Duration(orDefault(p.LiveWindowMinutes, int(evidence.DefaultLiveWindow/time.Minute))) * time.Minute),
	}
}

// WebOptions returns web adapter options from the pipeline section
func (p *Pipeline) WebOptions() []source.WebOption {
	return []source.WebOption{
		source.WithContentLength(orDefault(p.CondenseLength, source.DefaultWebContentLength)),
		source.WithParallelism(orDefault(p.WebParallelism, source.DefaultWebParallelism)),
	}
}

// SynthOptions returns synthesizer options from the pipeline section
func (p *Pipeline) SynthOptions() []synth.Option {
	return []synth.Option{
		synth.WithExcerptLength(orDefault(p.ExcerptLength, synth.DefaultExcerptLength)),
	}
}

// UseCaseOptions returns accounting options from the pipeline section. Report
// cost may not be zero, so zero always means the default.
func (p *Pipeline) UseCaseOptions() []usecase.Option {
	opts := []usecase.Option{
		usecase.WithReportCost(orDefault(p.ReportCost, usecase.DefaultReportCost)),
	}
	if p.InitialCredits > 0 {
		opts = append(opts, usecase.WithInitialCredits(p.InitialCredits))
	}
	return opts
}
