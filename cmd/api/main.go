// Package main is the entrypoint for the ResumeCraft gateway API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/resumecraft/gateway/internal/ai"
	"github.com/resumecraft/gateway/internal/config"
	"github.com/resumecraft/gateway/internal/handler"
	"github.com/resumecraft/gateway/internal/middleware"
	"github.com/resumecraft/gateway/internal/repository"
	"github.com/resumecraft/gateway/internal/server"
)

func main() {
	ctx := context.Background()

	// Load a local .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Missing credentials are warnings, not fatal errors: the gateway starts
	// and the dependent endpoint fails at call time instead.
	var repo *repository.Repository
	if cfg.MongoURL == "" {
		logger.Warn("MONGO_URL is not set; /signup will fail until it is configured")
	} else {
		repo, err = repository.New(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			logger.Warn("failed to connect to document store; /signup will fail until it is reachable",
				slog.String("error", sanitizeError(err, cfg.MongoURL)),
				slog.String("mongo_url", redactURL(cfg.MongoURL)),
			)
			repo = nil
		} else {
			logger.Info("connected to document store", slog.String("database", cfg.MongoDB))
		}
	}

	var aiClient *ai.Client
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; /generate will fail until it is configured")
	} else {
		aiClient, err = ai.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("failed to create AI client; /generate will fail until it is configured",
				slog.String("error", err.Error()),
			)
			aiClient = nil
		} else {
			logger.Info("AI client ready", slog.String("model", aiClient.Model()))
		}
	}

	// Assign through locals so an absent collaborator stays a nil interface
	// rather than a typed nil pointer.
	var store handler.UserStore
	var checker handler.HealthChecker
	if repo != nil {
		store = repo
		checker = repo
	}
	var generator handler.TextGenerator
	if aiClient != nil {
		generator = aiClient
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(checker, aiClient != nil)
	generateHandler := handler.NewGenerateHandler(generator, logger)
	signupHandler := handler.NewSignupHandler(store, logger)

	r := setupRouter(h, healthHandler, generateHandler, signupHandler, cfg, logger)

	srv := server.New(
		r,
		cfg.Port,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	if repo != nil {
		srv.OnShutdown("document store", repo.Close)
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	generateHandler *handler.GenerateHandler,
	signupHandler *handler.SignupHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	corsCfg := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
	}
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBytes(cfg.MaxRequestBodySize))

	r.Get("/", h.Root)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	r.Post("/generate", generateHandler.Generate)
	r.Post("/signup", signupHandler.Signup)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// redactURL strips the password from a connection string before logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces occurrences of the given secrets in an error message
// with their redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return msg
}
