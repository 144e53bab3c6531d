package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"airbnb-dashboard/services"
	"airbnb-dashboard/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the dashboard page and its JSON API
type Server struct {
	router     chi.Router
	dashboard  *services.Dashboard
	snapshotID uuid.UUID
	logger     *utils.Logger
	page       *template.Template
	startedAt  time.Time
}

// NewServer creates the HTTP server for a loaded dashboard
func NewServer(d *services.Dashboard, snapshotID uuid.UUID, logger *utils.Logger) (*Server, error) {
	page, err := template.New("dashboard.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	s := &Server{
		router:     chi.NewRouter(),
		dashboard:  d,
		snapshotID: snapshotID,
		logger:     logger,
		page:       page,
		startedAt:  time.Now(),
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/", s.handleDashboard)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/columns", s.handleColumns)
		r.Get("/listings", s.handleListings)
		r.Get("/map", s.handleMap)
		r.Get("/room-types", s.handleRoomTypes)
		r.Get("/hosts", s.handleHosts)
		r.Get("/price-bounds", s.handlePriceBounds)
		r.Get("/histogram", s.handleHistogram)
		r.Get("/reviews", s.handleReviews)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Request(r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Dashboard listening on http://%s", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down dashboard server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
