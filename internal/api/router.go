package api

import (
	"net/http"

	"rankcore/internal/leaderboard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// CoreInterface defines the leaderboard core methods the API layer calls.
// Keeping this minimal (and separate from *leaderboard.Core) lets tests
// substitute a mock without touching the real ranking index.
type CoreInterface interface {
	UpdateScore(id int64, delta leaderboard.Score) leaderboard.Score
	GetByRank(start, end int) []leaderboard.Entry
	GetNeighbors(id int64, up, down int) []leaderboard.Entry
	Count() int
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Core: mockCore,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Core is the leaderboard engine (required)
	Core CoreInterface

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default development origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	core CoreInterface
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// Side effects are limited to the rate limiter:
//   - No network listeners are opened
//   - If cfg.RateLimiter is nil, the limiter created here starts its
//     cleanup goroutine; nothing else is started
//
// This makes it safe to use in tests with httptest.NewServer.
//
// Example:
//
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/v1/leaderboard?start=1&end=10")
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{core: cfg.Core}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/leaderboard", h.handleGetByRank)
		r.Post("/customers/{id}/score", h.handleUpdateScore)
		r.Get("/customers/{id}/neighbors", h.handleGetNeighbors)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// GetRateLimiterFromRouter returns cfg.RateLimiter when it is set.
// Otherwise it builds a new limiter from the same configuration NewRouter
// would use; that limiter is a separate instance from the router's own.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
