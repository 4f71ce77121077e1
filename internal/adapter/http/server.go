package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	"github.com/couchcryptid/wildfire-explorer/internal/pipeline"
)

// Controller is the control surface the HTTP API drives.
type Controller interface {
	CheckReadiness(ctx context.Context) error
	Mode() pipeline.Mode
	Filters() domain.FilterState
	Set(dim domain.Dimension, tokens []string) error
	Submit() uint64
	Latest() domain.Snapshot
	LastError() error
	Describe(ctx context.Context) (pipeline.DomainInfo, error)
}

// Server exposes health, readiness, metrics, and the explorer control API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api/v1 control routes. hub may be nil to disable the snapshot stream.
func NewServer(addr string, ctrl Controller, hub *Hub, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	router.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	router.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(ctrl)))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &controlHandler{ctrl: ctrl, logger: logger}
	api := router.Group("/api/v1")
	{
		api.GET("/domain", h.getDomain)
		api.GET("/filters", h.getFilters)
		api.PUT("/filters/:dimension", h.putFilter)
		api.POST("/submit", h.submit)
		api.GET("/snapshot", h.getSnapshot)
		if hub != nil {
			api.GET("/stream", hub.serveWS)
		}
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
