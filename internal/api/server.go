// Package api exposes the search pipeline over HTTP. One POST endpoint
// multiplexes the five search flavors on a searchType discriminator; the
// webhook endpoint receives asynchronous phone reveals from the enrichment
// provider.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/cache"
	"github.com/cgr-group/prospect-api/internal/config"
	"github.com/cgr-group/prospect-api/internal/history"
	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/reveal"
)

// SearchService is the slice of the search layer the handlers need.
// *search.Service satisfies it.
type SearchService interface {
	SearchEnterprises(ctx context.Context, req model.EnterpriseSearchRequest) (*model.EnterpriseSearchResponse, error)
	Brainstorm(ctx context.Context, req model.BrainstormRequest) (*model.BrainstormResponse, error)
	AnalyzeCompetitors(ctx context.Context, req model.CompetitorAnalysisRequest) (*model.CompetitorAnalysisResponse, error)
	IdentifyCompetitors(ctx context.Context, req model.CompetitorIdentifyRequest) (*model.CompetitorIdentifyResponse, error)
	SearchContacts(ctx context.Context, req model.ContactSearchRequest) (*model.ContactSearchResponse, error)

	Reveals() *reveal.Store
	Cache() cache.Store
	History() history.Store
}

// Server holds the handler dependencies.
type Server struct {
	cfg *config.Config
	svc SearchService
}

func NewServer(cfg *config.Config, svc SearchService) *Server {
	return &Server{cfg: cfg, svc: svc}
}

// Routes builds the router with the standard middleware stack.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/webhook/enrich", s.handleEnrichWebhook)
		r.Get("/history", s.handleHistory)
	})
	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
