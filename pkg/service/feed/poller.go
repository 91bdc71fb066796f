package feed

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/service/fetch"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// ErrAllFeedsFailed is returned when no configured feed could be polled
var ErrAllFeedsFailed = goerr.New("all feeds failed")

// Source is one configured RSS or Atom feed
type Source struct {
	ID   types.FeedID
	Name string
	URL  string
}

// Poller fetches configured feeds and converts their items to entries
type Poller struct {
	sources     []Source
	client      *http.Client
	parallelism int
	now         func() time.Time
}

// Option configures Poller
type Option func(*Poller)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(p *Poller) {
		p.client = client
	}
}

// WithClock overrides the fetch timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		p.now = now
	}
}

// NewPoller creates a Poller over sources
func NewPoller(sources []Source, opts ...Option) *Poller {
	p := &Poller{
		sources:     sources,
		client:      &http.Client{Timeout: 20 * time.Second},
		parallelism: 4,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll fetches every source concurrently. Failed sources are logged and
// skipped; ErrAllFeedsFailed is returned only when none succeeded.
func (p *Poller) Poll(ctx context.Context) ([]*model.FeedEntry, error) {
	if len(p.sources) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		entries []*model.FeedEntry
		failed  int
		g       errgroup.Group
	)
	g.SetLimit(p.parallelism)

	logger := logging.From(ctx)
	for _, src := range p.sources {
		g.Go(func() error {
			got, err := p.fetch(ctx, src)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				logger.Warn("feed poll failed",
					"feed", src.ID.String(),
					"url", src.URL,
					"error", err.Error())
				return nil
			}
			entries = append(entries, got...)
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(p.sources) {
		return nil, goerr.Wrap(ErrAllFeedsFailed, "feed poll failed", goerr.V("feeds", len(p.sources)))
	}

	logger.Info("feeds polled",
		"feeds", len(p.sources),
		"failed", failed,
		"entries", len(entries))
	return entries, nil
}

func (p *Poller) fetch(ctx context.Context, src Source) ([]*model.FeedEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", src.URL))
	}
	req.Header.Set("User-Agent", "briefwise/1.0 (+https://github.com/briefwise/briefwise)")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch feed", goerr.V("url", src.URL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("feed returned non-OK status",
			goerr.V("url", src.URL),
			goerr.V("status", resp.StatusCode))
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse feed", goerr.V("url", src.URL))
	}

	fetchedAt := p.now().UTC()
	entries := make([]*model.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if entry := convertItem(item, src, fetchedAt); entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// convertItem maps a feed item to an entry. Items without a link are dropped.
func convertItem(item *gofeed.Item, src Source, fetchedAt time.Time) *model.FeedEntry {
	locator := strings.TrimSpace(item.Link)
	if locator == "" {
		return nil
	}

	published := fetchedAt
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	content := item.Description
	if content == "" {
		content = item.Content
	}
	if text, err := fetch.HTMLToText(content); err == nil {
		content = strings.ReplaceAll(text, "\n", " ")
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = src.Name
	}

	return &model.FeedEntry{
		ID:          model.NewFeedEntryID(locator),
		Feed:        src.ID.String(),
		Title:       title,
		Locator:     locator,
		Content:     content,
		PublishedAt: published,
		FetchedAt:   fetchedAt,
	}
}
