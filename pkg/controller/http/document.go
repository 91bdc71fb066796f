package http

import (
	"net/http"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

// uploadDocumentRequest carries already extracted text. Raw is the optional
// original file, base64 encoded in JSON.
type uploadDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Raw     []byte `json:"raw,omitempty"`
}

type documentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Length    int       `json:"length"`
	Stored    bool      `json:"stored"`
	CreatedAt time.Time `json:"created_at"`
}

func toDocumentResponse(doc *model.Document) documentResponse {
	return documentResponse{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		Length:    len([]rune(doc.Content)),
		Stored:    doc.BlobPath != "",
		CreatedAt: doc.CreatedAt,
	}
}

func uploadDocumentHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadDocumentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		doc, err := uc.Upload(r.Context(), userIDFromContext(r.Context()), req.Title, req.Content, req.Raw)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, toDocumentResponse(doc))
	}
}

type listDocumentsResponse struct {
	Documents []documentResponse `json:"documents"`
}

func listDocumentsHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := uc.List(r.Context(), userIDFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := listDocumentsResponse{Documents: make([]documentResponse, len(docs))}
		for i, doc := range docs {
			resp.Documents[i] = toDocumentResponse(doc)
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func deleteDocumentHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.DocumentID(chi.URLParam(r, "id"))

		if err := uc.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, successResponse{Success: true})
	}
}
