package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Application base URL
	BaseURL string

	// Corporate identity rules
	CorporateDomain string // email suffix allowed to sign in
	SeedAdminEmail  string // undeletable administrator account

	// Store Configuration
	StoreProvider string // "supabase", "postgres" or "memory"

	// Supabase store (hosted PostgREST)
	SupabaseURL    string
	SupabaseAPIKey string

	// Postgres store (self-hosted)
	DatabaseURL string

	// Auth Provider Configuration
	AuthProvider string // "gotrue" or "mock"

	// Timeouts
	BootstrapTimeout     time.Duration // hard cap on the post-login load
	CatalogInsertTimeout time.Duration // cap on catalog inserts before giving up
	StoreRequestTimeout  time.Duration // per-request remote store timeout

	// AI Provider Configuration
	AIProvider       string // "gemini" or "mock"
	GeminiAPIKey     string
	GeminiModel      string
	AIRequestTimeout time.Duration

	// Login rate limiting
	LoginRateLimit  int           // code requests per window per IP
	LoginRateWindow time.Duration

	// Templates
	TemplatesDir string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		CorporateDomain: getEnv("CORPORATE_DOMAIN", "@gschargev.co.kr"),
		SeedAdminEmail:  getEnv("SEED_ADMIN_EMAIL", "jhkang@gschargev.co.kr"),

		// Store defaults to in-memory for development
		StoreProvider:  getEnv("STORE_PROVIDER", "memory"),
		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseAPIKey: getEnv("SUPABASE_API_KEY", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		AuthProvider: getEnv("AUTH_PROVIDER", "mock"),

		BootstrapTimeout:     getEnvDuration("BOOTSTRAP_TIMEOUT", 7*time.Second),
		CatalogInsertTimeout: getEnvDuration("CATALOG_INSERT_TIMEOUT", 8*time.Second),
		StoreRequestTimeout:  getEnvDuration("STORE_REQUEST_TIMEOUT", 10*time.Second),

		// AI provider defaults
		AIProvider:       getEnv("AI_PROVIDER", "mock"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		AIRequestTimeout: getEnvDuration("AI_REQUEST_TIMEOUT", 30*time.Second),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),

		TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Validate store configuration
	switch cfg.StoreProvider {
	case "supabase":
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required when STORE_PROVIDER is 'supabase'")
		}
		if cfg.SupabaseAPIKey == "" {
			return nil, fmt.Errorf("SUPABASE_API_KEY is required when STORE_PROVIDER is 'supabase'")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_PROVIDER is 'postgres'")
		}
	case "memory":
		// Development only; state is lost on restart.
	default:
		return nil, fmt.Errorf("STORE_PROVIDER must be 'supabase', 'postgres' or 'memory', got: %s", cfg.StoreProvider)
	}

	// Validate auth provider configuration
	if cfg.AuthProvider == "gotrue" {
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required when AUTH_PROVIDER is 'gotrue'")
		}
		if cfg.SupabaseAPIKey == "" {
			return nil, fmt.Errorf("SUPABASE_API_KEY is required when AUTH_PROVIDER is 'gotrue'")
		}
	} else if cfg.AuthProvider != "mock" {
		return nil, fmt.Errorf("AUTH_PROVIDER must be either 'gotrue' or 'mock', got: %s", cfg.AuthProvider)
	}

	// Validate AI provider configuration
	if cfg.AIProvider == "gemini" {
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER is 'gemini'")
		}
	} else if cfg.AIProvider != "mock" {
		return nil, fmt.Errorf("AI_PROVIDER must be either 'gemini' or 'mock', got: %s", cfg.AIProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
