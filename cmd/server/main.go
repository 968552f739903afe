package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/api"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/assistant"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/config"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/db"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/email"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/logger"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/repository"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Connect to the database and apply migrations
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories (shared db connection)
	documentRepo := repository.NewDocumentRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	templateRepo := repository.NewTemplateRepository(database)
	userRepo := repository.NewUserRepository(database)

	// Initialize services
	mailer := email.NewSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	documentService := service.NewDocumentService(documentRepo, customerRepo, templateRepo, mailer, logger.WithComponent(log, "documents"))
	rateLimitService, err := service.NewRateLimitService(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rateLimitService.Close()

	assist := assistant.New(cfg.OpenAIAPIKey, logger.WithComponent(log, "assistant"))
	if assist == nil {
		log.Info().Msg("OPENAI_API_KEY not set, email drafting disabled")
	}

	// Set up router
	router := api.NewRouter(
		log,
		api.RouterConfig{
			RateLimitDaily:   cfg.DefaultDailyLimit,
			RateLimitMonthly: cfg.DefaultMonthlyLimit,
		},
		documentService,
		authService,
		rateLimitService,
		customerRepo,
		templateRepo,
		assist,
	)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting invoicing server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
