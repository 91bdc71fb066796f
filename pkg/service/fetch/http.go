package fetch

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	defaultMaxBodyBytes = 2 << 20
	defaultUserAgent    = "briefwise/1.0 (+https://github.com/briefwise/briefwise)"
)

// ErrEmptyPage is returned when a page has no readable text
var ErrEmptyPage = goerr.New("page has no readable text")

// HTTPFetcher downloads pages and reduces HTML to plain text
type HTTPFetcher struct {
	client       *http.Client
	limiter      *rate.Limiter
	userAgent    string
	maxBodyBytes int64
}

var _ Fetcher = &HTTPFetcher{}

// HTTPOption configures HTTPFetcher
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithRate limits outgoing requests to one per interval with the given burst
func WithRate(every time.Duration, burst int) HTTPOption {
	return func(f *HTTPFetcher) {
		f.limiter = rate.NewLimiter(rate.Every(every), burst)
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes caps how much of a response body is read
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		f.maxBodyBytes = n
	}
}

// NewHTTP creates an HTTPFetcher with a modest timeout and no pacing
func NewHTTP(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:       &http.Client{Timeout: 15 * time.Second},
		limiter:      rate.NewLimiter(rate.Inf, 1),
		userAgent:    defaultUserAgent,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads locator and returns its visible text
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", goerr.New("locator is empty")
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", goerr.Wrap(err, "fetch rate limiter wait failed", goerr.V("locator", locator))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create request", goerr.V("locator", locator))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "fetch request failed", goerr.V("locator", locator))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("fetch returned non-OK status",
			goerr.V("locator", locator),
			goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return "", goerr.Wrap(err, "failed to read body", goerr.V("locator", locator))
	}

	var text string
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		text = collapseWhitespace(string(body))
	} else {
		text, err = HTMLToText(string(body))
		if err != nil {
			return "", goerr.Wrap(err, "failed to parse html", goerr.V("locator", locator))
		}
	}

	if text == "" {
		return "", goerr.Wrap(ErrEmptyPage, "nothing to extract", goerr.V("locator", locator))
	}
	return text, nil
}

// HTMLToText returns the visible text of an HTML document, one block per line
func HTMLToText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse html")
	}

	var sb strings.Builder
	extractText(root, &sb, 0)
	return collapseWhitespace(sb.String()), nil
}

func extractText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 64 {
		return
	}

	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "nav", "footer", "header", "form":
			return
		case "p", "div", "section", "article", "li", "br", "tr",
			"h1", "h2", "h3", "h4", "h5", "h6", "title", "blockquote", "pre":
			sb.WriteString("\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb, depth+1)
	}
}

var spaceRun = regexp.MustCompile(`[ \t\r\f\v]+`)

func collapseWhitespace(s string) string {
	lines := strings.Split(spaceRun.ReplaceAllString(s, " "), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
