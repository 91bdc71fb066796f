package http

import (
	"net/http"
	"time"

	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	maxBodySize int64
}

type Options func(*Server)

// WithMaxBodySize limits the size of JSON request bodies
func WithMaxBodySize(n int64) Options {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// DefaultMaxBodySize bounds uploads, including base64 encoded raw bytes
const DefaultMaxBodySize = 16 << 20

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)
		r.Use(bodyLimit(s.maxBodySize))

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", createReportHandler(uc.Report))
			r.Get("/", listReportsHandler(uc.Report))
			r.Get("/{id}", getReportHandler(uc.Report))
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", uploadDocumentHandler(uc.Document))
			r.Get("/", listDocumentsHandler(uc.Document))
			r.Delete("/{id}", deleteDocumentHandler(uc.Document))
		})

		r.Get("/feed", recentFeedHandler(uc.Feed))
		r.Get("/me", meHandler(uc.User))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
