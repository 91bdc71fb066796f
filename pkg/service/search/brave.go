package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBraveEndpoint is the Brave Search web endpoint
	DefaultBraveEndpoint = "https://api.search.brave.com/res/v1/web/search"

	// braveMaxCount is the largest page size the API accepts
	braveMaxCount = 20
)

// ErrBraveAPIKeyMissing is returned when Brave is constructed without a key
var ErrBraveAPIKeyMissing = goerr.New("brave API key is missing")

// Brave uses the Brave Search API. Requests are paced to one per second,
// the free plan rate limit.
type Brave struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ Backend = &Brave{}

// BraveOption configures Brave
type BraveOption func(*Brave)

// WithBraveEndpoint overrides the API endpoint
func WithBraveEndpoint(endpoint string) BraveOption {
	return func(b *Brave) {
		b.endpoint = endpoint
	}
}

// WithBraveHTTPClient overrides the HTTP client
func WithBraveHTTPClient(client *http.Client) BraveOption {
	return func(b *Brave) {
		b.client = client
	}
}

// WithBraveRate overrides request pacing
func WithBraveRate(every time.Duration) BraveOption {
	return func(b *Brave) {
		b.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
}

// NewBrave creates a Brave backend
func NewBrave(apiKey string, opts ...BraveOption) (*Brave, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, goerr.Wrap(ErrBraveAPIKeyMissing, "cannot create brave backend")
	}

	b := &Brave{
		apiKey:   apiKey,
		endpoint: DefaultBraveEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PageAge     string `json:"page_age"`
		} `json:"results"`
	} `json:"web"`
}

func (b *Brave) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		return nil, nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, goerr.Wrap(err, "brave rate limiter wait failed")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(min(limit, braveMaxCount)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create brave request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "brave request failed", goerr.V("query", query))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, goerr.New("brave returned non-OK status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	var payload braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, goerr.Wrap(err, "failed to decode brave response")
	}

	results := make([]Result, 0, min(limit, len(payload.Web.Results)))
	for _, r := range payload.Web.Results {
		if r.URL == "" {
			continue
		}
		result := Result{
			Title:   r.Title,
			Locator: r.URL,
			Snippet: stripTags(r.Description),
		}
		if ts, err := time.Parse(time.RFC3339, r.PageAge); err == nil {
			result.PublishedAt = &ts
		} else if ts, err := time.Parse("2006-01-02T15:04:05", r.PageAge); err == nil {
			result.PublishedAt = &ts
		}
		results = append(results, result)
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}

// stripTags removes the <strong> highlighting Brave puts into descriptions
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
