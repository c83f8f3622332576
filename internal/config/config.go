package config

import (
	"os"
	"strconv"
	"time"
)

// Hosting ceiling and default budgets. The total stays well under the
// ceiling to leave a safety margin; all of these are env-overridable.
const (
	DefaultTotalBudgetMs       = 95000
	DefaultTranslationBudgetMs = 5000
	DefaultSearchBudgetMs      = 20000
	DefaultEnrichBudgetMs      = 40000
	DefaultCacheTTLDays        = 7
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis fast cache tier (empty disables)
	RedisURL string

	// Catalog data asset (empty uses the embedded default)
	CatalogFile string

	// Request budgets
	TotalBudget       time.Duration
	TranslationBudget time.Duration
	SearchBudget      time.Duration
	EnrichBudget      time.Duration

	// Cache
	CacheTTL time.Duration

	// Janitor
	JanitorInterval time.Duration
	QueueMaxAge     time.Duration

	// External collaborators (empty disables the stage)
	TranslatorURL string
	SearchURL     string

	// OAuth2 client credentials for outbound collaborator calls
	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string

	// OIDC admin auth (empty issuer disables admin routes)
	OIDCIssuer   string
	OIDCClientID string

	// CORS
	CORSOrigins string // Comma-separated allowed origins
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/suppsearch?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),
		CatalogFile: getEnv("CATALOG_FILE", ""),

		TotalBudget:       getEnvMs("TOTAL_BUDGET_MS", DefaultTotalBudgetMs),
		TranslationBudget: getEnvMs("TRANSLATION_BUDGET_MS", DefaultTranslationBudgetMs),
		SearchBudget:      getEnvMs("SEARCH_BUDGET_MS", DefaultSearchBudgetMs),
		EnrichBudget:      getEnvMs("ENRICH_BUDGET_MS", DefaultEnrichBudgetMs),

		CacheTTL: time.Duration(getEnvInt("CACHE_TTL_DAYS", DefaultCacheTTLDays)) * 24 * time.Hour,

		JanitorInterval: getEnvMs("JANITOR_INTERVAL_MS", int(6*time.Hour/time.Millisecond)),
		QueueMaxAge:     getEnvMs("QUEUE_MAX_AGE_MS", int(72*time.Hour/time.Millisecond)),

		TranslatorURL: getEnv("TRANSLATOR_URL", ""),
		SearchURL:     getEnv("SEARCH_URL", ""),

		OAuthTokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
		OAuthClientID:     getEnv("OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: getEnv("OAUTH_CLIENT_SECRET", ""),

		OIDCIssuer:   getEnv("OIDC_ISSUER", ""),
		OIDCClientID: getEnv("OIDC_CLIENT_ID", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvMs(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AdminEnabled reports whether the OIDC-protected admin surface is configured.
func (c *Config) AdminEnabled() bool {
	return c.OIDCIssuer != ""
}
