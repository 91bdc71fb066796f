package http

import (
	"net/http"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type createReportRequest struct {
	Query        string `json:"query"`
	IncludeFiles *bool  `json:"include_files"`
	IncludeWeb   *bool  `json:"include_web"`
	IncludeLive  *bool  `json:"include_live"`
}

// Omitted toggles enable the channel
func enabled(v *bool) bool {
	return v == nil || *v
}

func createReportHandler(uc *usecase.ReportUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReportRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		report, err := uc.Generate(r.Context(), usecase.GenerateInput{
			UserID:       userIDFromContext(r.Context()),
			Query:        req.Query,
			IncludeFiles: enabled(req.IncludeFiles),
			IncludeWeb:   enabled(req.IncludeWeb),
			IncludeLive:  enabled(req.IncludeLive),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, report)
	}
}

type listReportsResponse struct {
	Reports []*model.Report `json:"reports"`
}

func listReportsHandler(uc *usecase.ReportUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := uc.List(r.Context(), userIDFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if reports == nil {
			reports = []*model.Report{}
		}

		writeJSON(w, r, http.StatusOK, listReportsResponse{Reports: reports})
	}
}

func getReportHandler(uc *usecase.ReportUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.ReportID(chi.URLParam(r, "id"))

		report, err := uc.Get(r.Context(), userIDFromContext(r.Context()), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, report)
	}
}
