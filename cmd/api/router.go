package main

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/0xHy0kR1/LF-backend/internal/config"
	"github.com/0xHy0kR1/LF-backend/internal/handler"
	"github.com/0xHy0kR1/LF-backend/internal/metrics"
	"github.com/0xHy0kR1/LF-backend/internal/middleware"
	"github.com/0xHy0kR1/LF-backend/internal/service"
)

// Rate limit scopes.
const (
	scopeLogin  = "login"
	scopeAnswer = "answer"
)

type routerDeps struct {
	cfg        *config.Config
	logger     *slog.Logger
	users      *service.UserService
	items      *service.ItemService
	disclosure *service.DisclosureService
	health     *handler.HealthHandler
	limiter    middleware.IPLimiter
	recorder   metrics.Recorder
	// Peers whose forwarding headers are honoured; nil trusts none.
	trustedProxies []netip.Prefix
	// Optional; routes are skipped when nil.
	metricsHandler http.Handler
	blobHandler    http.Handler
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(d routerDeps) *chi.Mux {
	h := handler.New()
	authHandler := handler.NewAuthHandler(d.users, d.logger)
	itemHandler := handler.NewItemHandler(d.items, d.logger)
	disclosureHandler := handler.NewDisclosureHandler(d.disclosure, d.logger)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	requireAuth := middleware.RequireAuth(middleware.AuthConfig{
		Logger:        d.logger,
		Authenticator: d.users,
	})

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Limiter: d.limiter,
		Metrics: d.recorder,
		Enabled: d.cfg.RateLimitEnabled,
		RPS:     d.cfg.RateLimitRPS,
		Burst:   d.cfg.RateLimitBurst,
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP(d.trustedProxies))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Metrics(d.recorder))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(cors))

	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	if d.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.metricsHandler)
	}
	if d.blobHandler != nil {
		r.Method(http.MethodGet, "/blobs/{key}", d.blobHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(d.cfg.MaxUploadSize))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/createuser", authHandler.Register)
			r.With(middleware.RateLimitIP(rateLimitCfg, scopeLogin)).Post("/login", authHandler.Login)
			r.Post("/authenticate", authHandler.Authenticate)
		})

		r.Route("/lost-items", func(r chi.Router) {
			r.Get("/list-lostItems", itemHandler.ListLost)
			r.Get("/list-foundItems", itemHandler.ListFound)
			r.Get("/view/{itemId}", disclosureHandler.View)
			r.With(middleware.RateLimitIP(rateLimitCfg, scopeAnswer)).
				Post("/answerSecurityQuestion/{itemId}", disclosureHandler.Answer)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/create", itemHandler.Create)
				r.Put("/update/{itemId}", itemHandler.Update)
				r.Delete("/delete/{itemId}", itemHandler.Delete)
				r.Put("/markAsFound/{itemId}", itemHandler.MarkAsFound)
				r.Get("/notifications/{itemId}", itemHandler.Notifications)
			})
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
