// Package server assembles the HTTP and WebSocket surface of the auction:
// route registration, middleware chain, embedded frontend assets, and the
// http.Server lifecycle.
package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cedarhall/gavelhouse/internal/domain"
	"github.com/cedarhall/gavelhouse/internal/server/handler"
	"github.com/cedarhall/gavelhouse/internal/server/middleware"
	"github.com/cedarhall/gavelhouse/internal/server/ws"
)

//go:embed static
var staticFS embed.FS

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string

	// BidRateLimit caps bid submissions per client IP within BidRateWindow.
	// Zero disables rate limiting even when a limiter is available.
	BidRateLimit  int
	BidRateWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health  *handler.HealthHandler
	Auction *handler.AuctionHandler
	Items   *handler.ItemHandler
	Bids    *handler.BidHandler
	Admin   *handler.AdminHandler
}

// Server is the HTTP + WebSocket API server for the auction.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS) and attaches the WebSocket hub.
// limiter may be nil, in which case the bid route is not rate limited.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// --- Register routes ---

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Auction clock.
	mux.HandleFunc("GET /auction/status", handlers.Auction.Status)

	// Item catalog.
	mux.HandleFunc("GET /items", handlers.Items.ListItems)
	mux.HandleFunc("GET /items/{id}", handlers.Items.GetItem)

	// Bid submission, optionally rate limited per client IP.
	var bid http.Handler = http.HandlerFunc(handlers.Bids.PlaceBid)
	if limiter != nil && cfg.BidRateLimit > 0 {
		bid = middleware.RateLimit(limiter, cfg.BidRateLimit, cfg.BidRateWindow)(bid)
	}
	mux.Handle("POST /items/{id}/bid", bid)

	// Organizer endpoints.
	mux.HandleFunc("GET /admin/results", handlers.Admin.Results)
	mux.HandleFunc("POST /admin/archive", handlers.Admin.Archive)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Embedded frontend.
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("server: static assets: %v", err))
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "index.html")
	})

	// Build the middleware chain.
	var h http.Handler = mux

	// Apply request logging middleware.
	h = middleware.Logging(logger)(h)

	// Apply CORS middleware.
	h = corsMiddleware(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// corsMiddleware returns middleware that sets CORS headers for the allowed
// origins. If no origins are specified, it defaults to allowing all origins.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				allowed := len(allowedOrigins) == 0 // allow all if none specified
				for _, o := range allowedOrigins {
					if strings.EqualFold(o, "*") || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}

				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
			}

			// Handle preflight requests.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
