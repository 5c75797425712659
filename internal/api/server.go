// Package api exposes the trayflow use cases over HTTP for the calendar UI.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/trayflow/internal/metrics"
	"github.com/alexanderramin/trayflow/internal/service"
)

// Config holds the request defaults of the API.
type Config struct {
	// Location decides which calendar date "today" is.
	Location *time.Location
	// HorizonDays is the planning window used when a plan request names no end.
	HorizonDays int
	// GapDays is the gap window used when a gaps request names no end.
	GapDays int
}

// Server routes HTTP requests to the services.
type Server struct {
	router  *gin.Engine
	svc     *service.Services
	cfg     Config
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New builds the router. m may be nil, in which case /metrics is not served.
func New(svc *service.Services, cfg Config, log zerolog.Logger, m *metrics.Metrics) *Server {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.HorizonDays < 1 {
		cfg.HorizonDays = 21
	}
	if cfg.GapDays < 1 {
		cfg.GapDays = 7
	}
	s := &Server{
		router:  gin.New(),
		svc:     svc,
		cfg:     cfg,
		log:     log.With().Str("component", "api").Logger(),
		metrics: m,
		now:     time.Now,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/farms/:farm/today", s.handleToday)
		v1.GET("/farms/:farm/gaps", s.handleGaps)
		v1.POST("/farms/:farm/plan", s.handlePlan)

		v1.GET("/trays/:id/due", s.handleDue)
		v1.POST("/trays/:id/events/complete", s.handleComplete)
		v1.POST("/trays/:id/events/skip", s.handleSkip)
		v1.POST("/trays/:id/skip-overdue", s.handleSkipOverdue)
		v1.POST("/trays/:id/lost", s.handleLost)

		v1.GET("/recipes/:id/timeline", s.handleTimeline)
	}
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("http server stopped")
	return nil
}

func (s *Server) today() time.Time {
	y, m, d := s.now().In(s.cfg.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
