package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gschargev/giftdesk/internal"
	"github.com/gschargev/giftdesk/internal/ai"
	"github.com/gschargev/giftdesk/internal/ai/gemini"
	aimock "github.com/gschargev/giftdesk/internal/ai/mock"
	"github.com/gschargev/giftdesk/internal/auth"
	"github.com/gschargev/giftdesk/internal/handler"
	"github.com/gschargev/giftdesk/internal/metrics"
	"github.com/gschargev/giftdesk/internal/middleware"
	"github.com/gschargev/giftdesk/internal/service"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize the remote store
	var st store.Store
	switch cfg.StoreProvider {
	case "supabase":
		st, err = store.NewSupabaseStore(store.SupabaseConfig{
			URL:            cfg.SupabaseURL,
			APIKey:         cfg.SupabaseAPIKey,
			RequestTimeout: cfg.StoreRequestTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("supabase store initialization failed: %w", err)
		}
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		// Run migrations
		if err := internal.RunMigrations(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database ready")

		st = store.NewPostgresStore(db, logger)
	default:
		logger.Warn("Using in-memory store, data is lost on restart")
		st = store.NewMemory()
	}

	// Initialize the auth provider
	var authProvider auth.Provider
	if cfg.AuthProvider == "gotrue" {
		authProvider, err = auth.NewGoTrueProvider(auth.GoTrueConfig{
			URL:            cfg.SupabaseURL,
			APIKey:         cfg.SupabaseAPIKey,
			RequestTimeout: cfg.StoreRequestTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("auth provider initialization failed: %w", err)
		}
	} else {
		logger.Warn("Using mock auth provider, any login code of 000000 is accepted")
		authProvider = auth.NewMock()
	}

	// Initialize the AI provider
	var aiProvider ai.Provider
	if cfg.AIProvider == "gemini" {
		aiProvider, err = gemini.New(gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			ProviderConfig: ai.ProviderConfig{
				RequestTimeout: cfg.AIRequestTimeout,
			},
		}, logger)
		if err != nil {
			return fmt.Errorf("AI provider initialization failed: %w", err)
		}
	} else {
		logger.Warn("Using mock AI provider, responses are canned")
		aiProvider = aimock.New(logger)
	}

	// Initialize template renderer
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		TemplatesDir: cfg.TemplatesDir,
		Logger:       logger,
		IsDev:        cfg.Env == "development",
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()))

	// Session cache and sign-in/sign-out events
	sessions := session.NewManager()
	hub := auth.NewHub()
	hub.Subscribe(func(e auth.Event) {
		if e.Type == auth.EventSignedOut {
			sessions.DeleteByEmail(e.Email)
		}
	})

	// Initialize services
	clientService := service.NewClientService(st, logger)
	catalogService := service.NewCatalogService(st, logger, cfg.CatalogInsertTimeout)
	userService := service.NewUserService(st, logger, cfg.CorporateDomain, cfg.SeedAdminEmail)
	assistService := service.NewAssistService(aiProvider, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(sessions, logger, isSecure)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, logger)
	rateLimitMw := middleware.NewRateLimitMiddleware(loginLimiter, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(handler.AuthHandlerConfig{
		Store:            st,
		Provider:         authProvider,
		Sessions:         sessions,
		Hub:              hub,
		Renderer:         renderer,
		Logger:           logger,
		CorporateDomain:  cfg.CorporateDomain,
		BootstrapTimeout: cfg.BootstrapTimeout,
		IsSecure:         isSecure,
	})
	dashboardHandler := handler.NewDashboardHandler(renderer, logger)
	clientHandler := handler.NewClientHandler(clientService, renderer, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, renderer, logger)
	userHandler := handler.NewUserHandler(userService, sessions, hub, renderer, logger, cfg.SeedAdminEmail)
	assistHandler := handler.NewAssistHandler(assistService, renderer, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	staticFS := http.FileServer(http.Dir("web/static"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics (basic auth, scrape target)
	mux.Handle("GET /metrics", metrics.Handler(cfg.MetricsUsername, cfg.MetricsPassword))

	// Middleware stacks. Login POST routes are additionally rate limited
	// per client IP.
	public := middleware.Stack(authMw.WithSession)
	requireUser := middleware.Stack(authMw.WithSession, authMw.RequireUser)
	requireAdmin := middleware.Stack(authMw.WithSession, authMw.RequireUser, authMw.RequireAdmin)

	// Auth routes
	mux.Handle("GET /login", public(http.HandlerFunc(authHandler.LoginPage)))
	mux.Handle("POST /login/code", rateLimitMw.Limit(http.HandlerFunc(authHandler.SendCode)))
	mux.Handle("POST /login/verify", rateLimitMw.Limit(http.HandlerFunc(authHandler.VerifyCode)))
	mux.Handle("POST /logout", requireUser(http.HandlerFunc(authHandler.Logout)))

	// Dashboard
	mux.Handle("GET /{$}", requireUser(http.HandlerFunc(dashboardHandler.Show)))

	// Client book and gift records
	mux.Handle("GET /clients", requireUser(http.HandlerFunc(clientHandler.List)))
	mux.Handle("GET /clients/new", requireUser(http.HandlerFunc(clientHandler.NewForm)))
	mux.Handle("GET /clients/export", requireUser(http.HandlerFunc(clientHandler.ExportCSV)))
	mux.Handle("GET /clients/{id}/edit", requireUser(http.HandlerFunc(clientHandler.EditForm)))
	mux.Handle("POST /clients", requireUser(http.HandlerFunc(clientHandler.Save)))
	mux.Handle("POST /clients/{id}/delete", requireUser(http.HandlerFunc(clientHandler.Delete)))

	// Gift catalog (admin only)
	mux.Handle("GET /catalog", requireAdmin(http.HandlerFunc(catalogHandler.List)))
	mux.Handle("POST /catalog", requireAdmin(http.HandlerFunc(catalogHandler.Add)))
	mux.Handle("POST /catalog/{id}/price", requireAdmin(http.HandlerFunc(catalogHandler.UpdatePrice)))
	mux.Handle("POST /catalog/{id}/delete", requireAdmin(http.HandlerFunc(catalogHandler.Delete)))

	// User allow-list (admin only)
	mux.Handle("GET /users", requireAdmin(http.HandlerFunc(userHandler.List)))
	mux.Handle("POST /users", requireAdmin(http.HandlerFunc(userHandler.Add)))
	mux.Handle("POST /users/{email}/delete", requireAdmin(http.HandlerFunc(userHandler.Delete)))
	mux.Handle("POST /users/{email}/toggle-admin", requireAdmin(http.HandlerFunc(userHandler.ToggleAdmin)))

	// AI assistant
	mux.Handle("GET /assistant", requireUser(http.HandlerFunc(assistHandler.Show)))
	mux.Handle("POST /assistant/greeting", requireUser(http.HandlerFunc(assistHandler.Greeting)))
	mux.Handle("POST /assistant/suggestion", requireUser(http.HandlerFunc(assistHandler.Suggestion)))

	// Outer middleware applied to everything
	root := middleware.Stack(
		securityMw.Handler,
		loggingMw.Handler,
		metrics.Middleware,
	)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
