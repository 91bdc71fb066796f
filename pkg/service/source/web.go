package source

import (
	"context"
	"fmt"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/service/fetch"
	"github.com/briefwise/briefwise/pkg/service/search"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWebContentLength bounds condensed page text in runes
	DefaultWebContentLength = 1500

	// DefaultWebParallelism bounds concurrent page enrichment
	DefaultWebParallelism = 4
)

// Web turns search results into evidence, enriching each with page content
type Web struct {
	backend       search.Backend
	fetcher       fetch.Fetcher
	condenser     fetch.Condenser
	contentLength int
	parallelism   int
}

// WebOption configures Web
type WebOption func(*Web)

// WithContentLength sets the condensed content bound in runes
func WithContentLength(n int) WebOption {
	return func(w *Web) {
		if n > 0 {
			w.contentLength = n
		}
	}
}

// WithParallelism sets how many candidates are enriched at once
func WithParallelism(n int) WebOption {
	return func(w *Web) {
		if n > 0 {
			w.parallelism = n
		}
	}
}

// WithCondenser replaces the default truncating condenser
func WithCondenser(c fetch.Condenser) WebOption {
	return func(w *Web) {
		if c != nil {
			w.condenser = c
		}
	}
}

// NewWeb creates a Web adapter
func NewWeb(backend search.Backend, fetcher fetch.Fetcher, opts ...WebOption) *Web {
	w := &Web{
		backend:       backend,
		fetcher:       fetcher,
		condenser:     fetch.Truncate{},
		contentLength: DefaultWebContentLength,
		parallelism:   DefaultWebParallelism,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// outcome is the enrichment result of one candidate: either condensed
// page content or the error that forces the snippet fallback
type outcome struct {
	content string
	err     error
}

func (o outcome) evidence(c search.Result) model.Evidence {
	e := model.Evidence{
		Title:       c.Title,
		Locator:     c.Locator,
		Channel:     types.ChannelWeb,
		PublishedAt: c.PublishedAt,
	}
	if o.err != nil {
		e.Content = c.Snippet
		e.Confidence = model.ConfidenceWebFallback
		return e
	}
	e.Content = o.content
	e.Confidence = model.ConfidenceWeb
	return e
}

// Collect discovers up to limit candidates and enriches each independently.
// A candidate whose page cannot be fetched or condensed keeps its snippet
// with lower confidence. Output order equals discovery order.
func (w *Web) Collect(ctx context.Context, question string, limit int) []model.Evidence {
	if limit <= 0 {
		return nil
	}

	candidates, err := w.backend.Search(ctx, question, limit)
	if err != nil {
		_ = errutil.Handle(ctx, err, "web discovery failed")
		return nil
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	outcomes := make([]outcome, len(candidates))
	var g errgroup.Group
	g.SetLimit(w.parallelism)
	for i, c := range candidates {
		g.Go(func() error {
			outcomes[i] = w.enrich(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	logger := logging.From(ctx)
	evidence := make([]model.Evidence, len(candidates))
	degraded := 0
	for i, c := range candidates {
		if outcomes[i].err != nil {
			degraded++
			logger.Warn("web enrichment degraded to snippet",
				"locator", c.Locator,
				"error", outcomes[i].err.Error())
		}
		evidence[i] = outcomes[i].evidence(c)
	}

	logger.Debug("web evidence collected",
		"candidates", len(candidates),
		"degraded", degraded)
	return evidence
}

func (w *Web) enrich(ctx context.Context, c search.Result) (result outcome) {
	defer func() {
		if r := recover(); r != nil {
			result = outcome{err: goerr.New("panic during enrichment", goerr.V("panic", fmt.Sprint(r)))}
		}
	}()

	text, err := w.fetcher.Fetch(ctx, c.Locator)
	if err != nil {
		return outcome{err: err}
	}

	condensed, err := w.condenser.Condense(ctx, text, w.contentLength)
	if err != nil {
		return outcome{err: goerr.Wrap(err, "failed to condense page", goerr.V("locator", c.Locator))}
	}
	if condensed == "" {
		return outcome{err: goerr.New("condensed page is empty", goerr.V("locator", c.Locator))}
	}

	return outcome{content: condensed}
}
