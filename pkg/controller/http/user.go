package http

import (
	"net/http"

	"github.com/briefwise/briefwise/pkg/usecase"
)

type meResponse struct {
	ID          string `json:"id"`
	Credits     int    `json:"credits"`
	ReportCount int    `json:"report_count"`
}

func meHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := uc.Get(r.Context(), userIDFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, meResponse{
			ID:          user.ID,
			Credits:     user.Credits,
			ReportCount: user.ReportCount,
		})
	}
}
