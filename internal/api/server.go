// Package api wires the HTTP layer: the echo server, request middleware
// and the viewer-identity boundary.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/tidebay/tidebay/internal/config"
	"github.com/tidebay/tidebay/internal/search"
)

// Server handles HTTP requests for the API.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger zerolog.Logger
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, searchHandlers *search.Handlers, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger.With().Str("component", "api").Logger(),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.requestLogger())
	e.Use(ViewerMiddleware([]byte(cfg.Auth.JWTSecret)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/api/v1")
	searchHandlers.RegisterRoutes(v1)

	return s
}

// requestLogger logs one line per request with the correlation id.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			event := s.logger.Info()
			if err != nil {
				event = s.logger.Warn().Err(err)
			}
			event.
				Str("requestId", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("elapsed", time.Since(start)).
				Msg("Request handled")
			return nil
		}
	}
}

// Start begins listening for requests.
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Server.Address())
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router, used by tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
