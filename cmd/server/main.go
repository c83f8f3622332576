package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/storage/redis/v3"
	"golang.org/x/oauth2/clientcredentials"

	"suppsearch/internal/cache"
	"suppsearch/internal/catalog"
	"suppsearch/internal/config"
	"suppsearch/internal/db"
	"suppsearch/internal/jobs"
	"suppsearch/internal/lookup"
	"suppsearch/internal/metrics"
	"suppsearch/internal/pipeline"
	"suppsearch/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.IsDev() {
		if err := database.SeedDevCache(ctx); err != nil {
			log.Printf("Warning: failed to seed dev cache: %v", err)
		}
	}

	// Optional Redis fast tier in front of the durable cache
	var fast cache.FastStorage
	if cfg.RedisURL != "" {
		fast = redis.New(redis.Config{URL: cfg.RedisURL})
		log.Println("Redis fast cache tier enabled")
	}
	gateway := cache.New(database, fast)

	// Curated catalog data asset
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog loaded (%d supplements)", cat.Len())

	svc := lookup.New(cat, gateway)

	// External collaborators; unset URLs disable the stage
	var translator pipeline.Translator
	var searcher pipeline.Searcher
	client := collaboratorClient(ctx, cfg)
	if cfg.TranslatorURL != "" {
		translator = pipeline.NewHTTPTranslator(cfg.TranslatorURL, client)
	}
	if cfg.SearchURL != "" {
		searcher = pipeline.NewHTTPSearcher(cfg.SearchURL, client)
	}

	pipe := pipeline.New(translator, searcher, database, pipeline.Config{
		TranslationBudget: cfg.TranslationBudget,
		SearchBudget:      cfg.SearchBudget,
		EnrichBudget:      cfg.EnrichBudget,
	})

	// Metrics
	metrics.Init(database)

	// Server and routes
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, gateway, cat, svc, pipe); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Background cleanup
	janitorCtx, cancelJanitor := context.WithCancel(ctx)
	defer cancelJanitor()
	janitor := jobs.NewJanitor(database, cfg.JanitorInterval, cfg.QueueMaxAge)
	go janitor.Start(janitorCtx)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancelJanitor()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// collaboratorClient returns an HTTP client for outbound collaborator calls.
// With OAuth2 client credentials configured, tokens are fetched and refreshed
// automatically; otherwise the clients fall back to plain HTTP.
func collaboratorClient(ctx context.Context, cfg *config.Config) *http.Client {
	if cfg.OAuthTokenURL == "" {
		return nil
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		TokenURL:     cfg.OAuthTokenURL,
	}
	return cc.Client(ctx)
}
