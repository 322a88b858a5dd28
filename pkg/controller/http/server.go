package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/utils/safe"
)

// ConfigReader is the read side of the config store served over HTTP
type ConfigReader interface {
	ListAllSubscriptionIndices(ctx context.Context) ([]config.JiraSubscriptionIndexEntry, error)
	GetJiraSubscriptionIndex(ctx context.Context, urlToken string) (*config.Cached[config.JiraSubscriptionIndex], error)
	GetTeamJiraSubscriptions(ctx context.Context, team string) (*config.Cached[config.TeamJiraSubscriptions], error)
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	store  ConfigReader
}

// Options is a functional option for Server
type Options func(*Server)

// WithConfigReader enables the /api/v1 endpoints
func WithConfigReader(store ConfigReader) Options {
	return func(s *Server) {
		s.store = store
	}
}

// New creates a new HTTP server
func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	if s.store != nil {
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/subscription-index", listIndexHandler(s.store))
			r.Get("/subscription-index/{urlToken}", resolveIndexHandler(s.store))
		})
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
