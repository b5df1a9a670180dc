// package server contains middleware & handlers for the watchlist status service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/tasks"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the path patterns it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                        // Use adds middleware to the router's middleware stack
	Handle(method, pattern string, handler http.Handler) // Handle registers a handler for the specified method and pattern
	Handler(handler Handler)                             // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request)    // ServeHTTP implements http.Handler for the entire router
}

// WatchlistReader is the read side of the watchlist engine used by the API.
type WatchlistReader interface {
	Watchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	Compare(ctx context.Context, userA, userB string, progress chan<- tasks.ProgressUpdate) (*tasks.ComparisonResult, error)
}

// Server serves the status and watchlist API.
type Server struct {
	addr    string
	router  *BasicRouter
	logger  *log.Logger
	backend string
	started time.Time
}

// New builds a server for addr. backend names the storage backend reported by /healthz.
func New(addr, backend string, reader WatchlistReader, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		addr:    addr,
		router:  NewBasicRouter(),
		logger:  logger,
		backend: backend,
		started: time.Now(),
	}

	s.router.Use(Logging(logger), Recoverer(logger))
	s.router.HandleFunc(http.MethodGet, "/healthz", s.health)
	s.router.Handler(NewWatchlistHandler(reader))
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	for _, route := range s.router.Routes() {
		s.logger.Debug("route registered", "route", route)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"storage": s.backend,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}
