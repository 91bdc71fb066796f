package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/usecase"
)

// defaultFeedWindowMinutes matches the live channel window used for reports
const defaultFeedWindowMinutes = 60

type feedEntryResponse struct {
	Title       string    `json:"title"`
	Locator     string    `json:"locator"`
	Feed        string    `json:"feed"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}

type recentFeedResponse struct {
	WindowMinutes int                 `json:"window_minutes"`
	Entries       []feedEntryResponse `json:"entries"`
}

func recentFeedHandler(uc *usecase.FeedUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minutes := defaultFeedWindowMinutes
		if v := r.URL.Query().Get("window"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "window must be a non-negative number of minutes"})
				return
			}
			minutes = n
		}

		entries, err := uc.Recent(r.Context(), time.Duration(minutes)*time.Minute)
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := recentFeedResponse{
			WindowMinutes: minutes,
			Entries:       make([]feedEntryResponse, len(entries)),
		}
		for i, e := range entries {
			resp.Entries[i] = toFeedEntryResponse(e)
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func toFeedEntryResponse(e *model.FeedEntry) feedEntryResponse {
	return feedEntryResponse{
		Title:       e.Title,
		Locator:     e.Locator,
		Feed:        e.Feed,
		Content:     e.Content,
		PublishedAt: e.PublishedAt,
	}
}
