package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ramonehamilton/card-binder/internal/api/websocket"
	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/logging"
	"github.com/ramonehamilton/card-binder/internal/metrics"
)

// Server represents the REST API server for one binder.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	origins    []string

	// WebSocket hub for live binder events
	wsHub *websocket.Hub

	ctrl    *binder.Controller
	metrics *metrics.SourceMetrics
	log     *logrus.Entry
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	AllowedOrigins []string // CORS and websocket origins; empty means localhost only for CORS, any for websocket

	// Metrics reported by /api/v1/system/metrics. A fresh collector is used when nil.
	Metrics *metrics.SourceMetrics
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port: 8080,
	}
}

// NewServer creates a new API server serving ctrl.
func NewServer(cfg *Config, ctrl *binder.Controller) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"}
	}

	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewSourceMetrics()
	}

	s := &Server{
		router:  chi.NewRouter(),
		port:    cfg.Port,
		origins: origins,
		wsHub:   websocket.NewHub(cfg.AllowedOrigins...),
		ctrl:    ctrl,
		metrics: cfg.Metrics,
		log:     logging.Component("API"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST requests with a body
	s.router.Use(s.jsonContentTypeMiddleware)
}

// requestLogger logs each request through the component logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("Request")
	})
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the websocket hub and the HTTP listener in the background.
func (s *Server) Start() error {
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.log.Infof("API server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("API server error")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server and the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	s.log.Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// NewWebSocketObserver creates an observer that forwards binder events to
// the server's websocket clients. Register it with the binder's EventDispatcher.
func (s *Server) NewWebSocketObserver() *websocket.WebSocketObserver {
	return websocket.NewWebSocketObserver(s.wsHub)
}
