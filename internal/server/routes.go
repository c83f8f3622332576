package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"suppsearch/internal/cache"
	"suppsearch/internal/catalog"
	"suppsearch/internal/db"
	"suppsearch/internal/handlers"
	"suppsearch/internal/handlers/api"
	"suppsearch/internal/lookup"
	"suppsearch/internal/middleware"
	"suppsearch/internal/pipeline"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, gateway *cache.Gateway, cat *catalog.Catalog, svc *lookup.Service, pipe *pipeline.Orchestrator) error {
	lookupHandler := api.NewLookupHandler(svc, pipe, s.Cfg)
	statusHandler := api.NewStatusHandler(gateway, database)
	probeHandler := handlers.NewProbeHandler(database)

	s.App.Get("/api/lookup", lookupHandler.Lookup)
	s.App.Get("/api/status", statusHandler.Status)

	// Admin routes require a verified OIDC bearer token. Without an issuer
	// the admin surface stays unregistered.
	if s.Cfg.AdminEnabled() {
		authMiddleware, err := middleware.NewAuthMiddleware(ctx, s.Cfg)
		if err != nil {
			return err
		}
		preloadHandler := api.NewPreloadHandler(cat, gateway, database)
		s.App.Post("/api/admin/preload", authMiddleware.RequireAuth, preloadHandler.Preload)
	} else {
		log.Println("OIDC_ISSUER not set; admin endpoints disabled")
	}

	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
