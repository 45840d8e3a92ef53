package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/LeartBytyqi1/my-fit-companion/internal/api/middleware"
	authpkg "github.com/LeartBytyqi1/my-fit-companion/internal/auth"
	"github.com/LeartBytyqi1/my-fit-companion/internal/chat"
	"github.com/LeartBytyqi1/my-fit-companion/internal/config"
	"github.com/LeartBytyqi1/my-fit-companion/internal/handlers"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
	"github.com/LeartBytyqi1/my-fit-companion/internal/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg *config.Config, logger zerolog.Logger, db store.DataStore, redisStore *store.RedisStore, chatServer *chat.Server, tokens *authpkg.TokenManager) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(64 * 1024))
	r.Use(middleware.ValidateContentType)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting (no-op without Redis)
	var redisClient *redis.Client
	if redisStore != nil {
		redisClient = redisStore.Client()
	}
	limiter := middleware.NewRateLimiter(redisClient, logger, middleware.RateLimiterConfig{
		Whitelist: cfg.RateLimitWhitelist,
	})
	r.Use(limiter.Middleware)

	// CORS
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create handler and auth middleware
	h := handlers.NewHandler(db, redisStore, tokens)
	auth := middleware.NewAuthMiddleware(tokens, db)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes (no auth required)
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)

	// Chat and signaling over one WebSocket connection; the chat protocol
	// authenticates per connection via its own authenticate event
	r.Get("/ws", chatServer.ServeWS)

	// Authenticated routes (require bearer token)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/api/profile", h.Profile)
		r.Get("/api/stats", h.Stats)

		r.Get("/api/workouts", h.ListWorkouts)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleCoach, models.RoleAdmin))
			r.Post("/api/workouts", h.CreateWorkout)
		})

		r.Get("/api/goals", h.ListGoals)
		r.Post("/api/goals", h.CreateGoal)
		r.Put("/api/goals/{id}/progress", h.UpdateGoalProgress)

		r.Get("/api/progress", h.ListProgress)
		r.Post("/api/progress", h.CreateProgress)

		r.Get("/api/sessions", h.ListSessions)
		r.Post("/api/sessions/start", h.StartSession)
		r.Post("/api/sessions/end/{sessionId}", h.EndSession)
	})

	return r
}
