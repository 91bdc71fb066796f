package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpctrl "github.com/briefwise/briefwise/pkg/controller/http"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/repository/memory"
	"github.com/briefwise/briefwise/pkg/service/evidence"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type stubAggregator struct {
	err     error
	lastReq evidence.Request
}

func (a *stubAggregator) Aggregate(ctx context.Context, req evidence.Request) (*evidence.Result, error) {
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	ev := []model.Evidence{
		{Title: "Doc", Locator: "doc-1", Content: "solar", Channel: types.ChannelFile, Confidence: model.ConfidenceFile},
		{Title: "Page", Locator: "https://example.com", Content: "solar", Channel: types.ChannelWeb, Confidence: model.ConfidenceWeb},
	}
	return &evidence.Result{Evidence: ev, Breakdown: model.NewSourceBreakdown(ev)}, nil
}

type stubSynthesizer struct {
	err error
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, question string, ev []model.Evidence) (*model.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Report{
		Query:            question,
		Title:            "Research Report: " + question,
		ExecutiveSummary: "summary",
		KeyInsights:      []string{},
		Sources:          ev,
		Citations:        []model.Citation{{ID: 1, Source: ev[0], Relevance: 0.8}},
		Confidence:       0.8,
	}, nil
}

type testServer struct {
	repo       *memory.Memory
	aggregator *stubAggregator
	synth      *stubSynthesizer
	handler    http.Handler
}

func newTestServer(t *testing.T, opts ...usecase.Option) *testServer {
	t.Helper()
	ts := &testServer{
		repo:       memory.New(),
		aggregator: &stubAggregator{},
		synth:      &stubSynthesizer{},
	}
	uc := usecase.New(ts.repo, ts.aggregator, ts.synth, opts...)
	ts.handler = httpctrl.New(uc)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(httpctrl.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
}

func TestMissingUser(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/reports", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
}

func TestCreateReport(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(t, http.MethodPost, "/api/reports", "user-1", map[string]any{
			"query":        "solar market",
			"include_live": false,
		})
		gt.Value(t, w.Code).Equal(http.StatusCreated)

		report := decode[model.Report](t, w)
		gt.Value(t, report.Title).Equal("Research Report: solar market")
		gt.Value(t, report.SourceBreakdown).Equal(model.SourceBreakdown{Files: 1, Web: 1})
		gt.Value(t, report.Cost).Equal(usecase.DefaultReportCost)

		gt.Bool(t, ts.aggregator.lastReq.IncludeFiles).True()
		gt.Bool(t, ts.aggregator.lastReq.IncludeWeb).True()
		gt.Bool(t, ts.aggregator.lastReq.IncludeLive).False()

		me := decode[map[string]any](t, ts.do(t, http.MethodGet, "/api/me", "user-1", nil))
		gt.Value(t, me["credits"]).Equal(float64(usecase.DefaultInitialCredits - usecase.DefaultReportCost))
		gt.Value(t, me["report_count"]).Equal(float64(1))

		got := ts.do(t, http.MethodGet, "/api/reports/"+report.ID.String(), "user-1", nil)
		gt.Value(t, got.Code).Equal(http.StatusOK)

		list := decode[map[string][]model.Report](t, ts.do(t, http.MethodGet, "/api/reports", "user-1", nil))
		gt.Array(t, list["reports"]).Length(1)
	})

	testCases := []struct {
		name       string
		body       any
		setup      func(ts *testServer)
		opts       []usecase.Option
		wantStatus int
	}{
		{
			name:       "empty query",
			body:       map[string]any{"query": "  "},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "insufficient credits",
			body:       map[string]any{"query": "solar"},
			opts:       []usecase.Option{usecase.WithInitialCredits(0)},
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name: "no evidence",
			body: map[string]any{"query": "solar"},
			setup: func(ts *testServer) {
				ts.aggregator.err = goerr.Wrap(model.ErrNoEvidence, "nothing found")
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "synthesis failed",
			body: map[string]any{"query": "solar"},
			setup: func(ts *testServer) {
				ts.synth.err = goerr.Wrap(model.ErrSynthesisFailed, "model down")
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.opts...)
			if tc.setup != nil {
				tc.setup(ts)
			}

			w := ts.do(t, http.MethodPost, "/api/reports", "user-1", tc.body)
			gt.Value(t, w.Code).Equal(tc.wantStatus)

			resp := decode[map[string]string](t, w)
			gt.String(t, resp["error"]).NotEqual("")
		})
	}
}

func TestGetReport_NotFound(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/reports/missing", "user-1", nil)
	gt.Value(t, w.Code).Equal(http.StatusNotFound)
}

func TestDocuments(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/documents", "user-1", map[string]any{
		"title":   "Notes",
		"content": "solar capacity",
	})
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	created := decode[map[string]any](t, w)
	id, _ := created["id"].(string)
	gt.String(t, id).NotEqual("")

	list := decode[map[string][]map[string]any](t, ts.do(t, http.MethodGet, "/api/documents", "user-1", nil))
	gt.Array(t, list["documents"]).Length(1)

	w = ts.do(t, http.MethodDelete, "/api/documents/"+id, "user-2", nil)
	gt.Value(t, w.Code).Equal(http.StatusNotFound)

	w = ts.do(t, http.MethodDelete, "/api/documents/"+id, "user-1", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	w = ts.do(t, http.MethodPost, "/api/documents", "user-1", map[string]any{"title": "Empty"})
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
}

func TestFeed(t *testing.T) {
	now := time.Now()
	ts := newTestServer(t)
	gt.NoError(t, ts.repo.Feed().Upsert(context.Background(), []*model.FeedEntry{
		{ID: model.NewFeedEntryID("https://n/1"), Feed: "tech", Title: "Recent", Locator: "https://n/1", PublishedAt: now.Add(-10 * time.Minute), FetchedAt: now},
		{ID: model.NewFeedEntryID("https://n/2"), Feed: "tech", Title: "Old", Locator: "https://n/2", PublishedAt: now.Add(-3 * time.Hour), FetchedAt: now},
	})).Required()

	t.Run("default window", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/feed", "user-1", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var resp struct {
			WindowMinutes int `json:"window_minutes"`
			Entries       []struct {
				Title string `json:"title"`
			} `json:"entries"`
		}
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp.WindowMinutes).Equal(60)
		gt.Array(t, resp.Entries).Length(1).Required()
		gt.Value(t, resp.Entries[0].Title).Equal("Recent")
	})

	t.Run("wider window", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/feed?window=240", "user-1", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		resp := decode[map[string]any](t, w)
		entries, _ := resp["entries"].([]any)
		gt.Array(t, entries).Length(2)
	})

	t.Run("invalid window", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/feed?window=abc", "user-1", nil)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}
