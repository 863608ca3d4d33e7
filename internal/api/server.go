package api

import (
	"log"
	"net/http"

	"rankcore/internal/leaderboard"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with a WebSocket hub that fans out live
// rank-change events as they're produced by leaderboard.Core.
type Server struct {
	core        *leaderboard.Core
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// The WebSocket hub loop does not start and no network listener is opened
// until Start() is called. The rate limiter created here does start its
// cleanup goroutine.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(core *leaderboard.Core) *Server {
	s := &Server{
		core:  core,
		wsHub: NewWebSocketHub(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Core:        core,
		RateLimiter: s.rateLimiter,
	})

	s.setupWebSocketRoutes()

	// Every UpdateScore call that moves the leaderboard reaches subscribers
	// through this listener, with no polling loop.
	core.Listener = s.wsHub.OnLeaderboardChange

	return s
}

// setupWebSocketRoutes adds WebSocket-specific routes to the router.
// These routes need access to the wsHub instance, so they can't be
// part of the generic NewRouter factory.
func (s *Server) setupWebSocketRoutes() {
	s.router.Get("/ws", s.handleWS)
}

// Start begins the HTTP server AND starts the WebSocket hub loop.
// This is the only method that opens a network listener.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()

	log.Printf("🌐 API server starting on %s", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
//
// Example:
//
//	server := api.NewServer(core)
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/v1/leaderboard")
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop stops the rate limiter's cleanup goroutine. The WebSocket hub loop
// and the HTTP listener are not stopped by it.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
