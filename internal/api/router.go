package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/api/handlers"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/api/middleware"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/assistant"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/repository"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/service"
)

// RouterConfig carries rate limit settings into the router
type RouterConfig struct {
	RateLimitDaily   int
	RateLimitMonthly int
}

// NewRouter creates and configures the HTTP router
func NewRouter(
	log zerolog.Logger,
	cfg RouterConfig,
	documentService *service.DocumentService,
	authService *service.AuthService,
	rateLimitService *service.RateLimitService,
	customerRepo *repository.CustomerRepository,
	templateRepo *repository.TemplateRepository,
	assist *assistant.Assistant,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)

	// Health checks (no auth required)
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready)

	// Create handlers
	documentHandler := handlers.NewDocumentHandler(documentService, customerRepo, assist)
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	templateHandler := handlers.NewTemplateHandler(templateRepo)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitService, cfg.RateLimitDaily, cfg.RateLimitMonthly)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.RateLimit)

			// Document endpoints
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", documentHandler.List)
				r.Post("/", documentHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", documentHandler.Get)
					r.Patch("/", documentHandler.Update)
					r.Post("/status", documentHandler.ChangeStatus)
					r.Post("/convert", documentHandler.Convert)
					r.Post("/send", documentHandler.Send)
					r.Post("/draft-email", documentHandler.DraftEmail)
				})
			})

			// Customer endpoints
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandler.List)
				r.Post("/", customerHandler.Create)
				r.Get("/{id}", customerHandler.Get)
				r.Put("/{id}", customerHandler.Update)
				r.Delete("/{id}", customerHandler.Delete)
			})

			// Template endpoints
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", templateHandler.List)
				r.Post("/", templateHandler.Create)
				r.Get("/{id}", templateHandler.Get)
				r.Put("/{id}", templateHandler.Update)
				r.Delete("/{id}", templateHandler.Delete)
			})
		})
	})

	return r
}
