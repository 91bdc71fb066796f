package search_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/briefwise/briefwise/pkg/service/search"
	"github.com/m-mizutani/gt"
)

func TestCurated(t *testing.T) {
	corpus := []search.Result{
		{Title: "AI Productivity Tools See 340% Growth", Locator: "https://techcrunch.com/article/1", Snippet: "enterprise adoption"},
		{Title: "Gardening Tips", Locator: "https://garden.example.com/1", Snippet: "planting season guide"},
		{Title: "Cloud Computing Revenue", Locator: "https://marketwatch.com/article/2", Snippet: "productivity suites drive growth"},
		{Title: "SaaS Earnings", Locator: "https://bloomberg.com/article/3", Snippet: "tools vendors beat estimates"},
	}
	backend := search.NewCurated(corpus)
	ctx := context.Background()

	t.Run("filters by keyword and keeps corpus order", func(t *testing.T) {
		results, err := backend.Search(ctx, "AI productivity tools", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(3).Required()
		gt.Value(t, results[0].Locator).Equal("https://techcrunch.com/article/1")
		gt.Value(t, results[1].Locator).Equal("https://marketwatch.com/article/2")
		gt.Value(t, results[2].Locator).Equal("https://bloomberg.com/article/3")
	})

	t.Run("caps at limit", func(t *testing.T) {
		results, err := backend.Search(ctx, "AI productivity tools", 2)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(2)
	})

	t.Run("zero limit returns nothing", func(t *testing.T) {
		results, err := backend.Search(ctx, "AI productivity tools", 0)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(0)
	})

	t.Run("constructor copies corpus", func(t *testing.T) {
		local := []search.Result{{Title: "battery news", Locator: "https://a.example.com"}}
		b := search.NewCurated(local)
		local[0].Title = "changed"

		results, err := b.Search(ctx, "battery", 5)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(1)
	})
}

func TestBrave(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := search.NewBrave("  ")
		gt.Bool(t, errors.Is(err, search.ErrBraveAPIKeyMissing)).True()
	})

	t.Run("parses web results", func(t *testing.T) {
		var gotToken, gotQuery, gotCount string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.Header.Get("X-Subscription-Token")
			gotQuery = r.URL.Query().Get("q")
			gotCount = r.URL.Query().Get("count")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"web":{"results":[
				{"title":"First","url":"https://one.example.com","description":"<strong>battery</strong> breakthrough","page_age":"2024-03-01T10:00:00"},
				{"title":"No URL","url":"","description":"skipped"},
				{"title":"Second","url":"https://two.example.com","description":"plain"},
				{"title":"Third","url":"https://three.example.com","description":"over limit"}
			]}}`))
		}))
		defer srv.Close()

		b, err := search.NewBrave("secret-token",
			search.WithBraveEndpoint(srv.URL),
			search.WithBraveRate(time.Millisecond),
		)
		gt.NoError(t, err).Required()

		results, err := b.Search(context.Background(), "battery trends", 2)
		gt.NoError(t, err).Required()

		gt.Value(t, gotToken).Equal("secret-token")
		gt.Value(t, gotQuery).Equal("battery trends")
		gt.Value(t, gotCount).Equal("2")
		gt.Array(t, results).Length(2).Required()
		gt.Value(t, results[0].Title).Equal("First")
		gt.Value(t, results[0].Snippet).Equal("battery breakthrough")
		gt.Value(t, results[0].PublishedAt).NotNil()
		gt.Value(t, results[1].Locator).Equal("https://two.example.com")
		gt.Value(t, results[1].PublishedAt).Nil()
	})

	t.Run("non-OK status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		b, err := search.NewBrave("key", search.WithBraveEndpoint(srv.URL))
		gt.NoError(t, err).Required()

		_, err = b.Search(context.Background(), "anything", 5)
		gt.Value(t, err).NotNil()
	})
}
