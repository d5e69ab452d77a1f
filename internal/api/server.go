// Package api hosts the HTTP server: middleware stack, route registration
// and lifecycle.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/streamrank/streamrank/internal/config"
	"github.com/streamrank/streamrank/internal/scheduler"
	"github.com/streamrank/streamrank/internal/scraper"
	"github.com/streamrank/streamrank/internal/seasonpack"
	"github.com/streamrank/streamrank/internal/sources"
)

// Version is injected at build time via ldflags.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	echo      *echo.Echo
	cfg       *config.Config
	log       zerolog.Logger
	sources   *sources.Service
	packs     *seasonpack.Detector
	scheduler *scheduler.Scheduler
	manifests []*scraper.Manifest
	queries   *scraper.QueryBuilder
	mapper    *scraper.Mapper
	started   time.Time
}

// NewServer wires the middleware stack and routes.
func NewServer(cfg *config.Config, srv *sources.Service, packs *seasonpack.Detector, sched *scheduler.Scheduler, manifests []*scraper.Manifest, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		cfg:       cfg,
		log:       log.With().Str("component", "api").Logger(),
		sources:   srv,
		packs:     packs,
		scheduler: sched,
		manifests: manifests,
		queries:   scraper.NewQueryBuilder(),
		mapper:    scraper.NewMapper(packs, log),
		started:   time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.log.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.log.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	s.echo.Use(middleware.BodyLimit("2M"))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)
	api.GET("/tasks", s.listTasks)
	api.POST("/tasks/:id/run", s.runTask)

	sourceHandlers := sources.NewHandlers(s.sources, s.packs)
	sourceHandlers.RegisterRoutes(api.Group("/sources"))

	s.setupProviderRoutes(api)
}

// Start begins serving on the given address. Blocks until shutdown.
func (s *Server) Start(address string) error {
	s.log.Info().Str("address", address).Msg("starting HTTP server")
	err := s.echo.Start(address)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"version":       Version,
		"uptimeSeconds": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

func (s *Server) runTask(c echo.Context) error {
	if err := s.scheduler.RunNow(c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}
