// Package server exposes the summarization pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/time/rate"

	"github.com/hrygo/docbrief/document"
	"github.com/hrygo/docbrief/internal/profile"
	"github.com/hrygo/docbrief/metrics"
	"github.com/hrygo/docbrief/pipeline"
)

type Server struct {
	e        *echo.Echo
	Profile  *profile.Profile
	pipeline *pipeline.Pipeline
}

func NewServer(_ context.Context, instanceProfile *profile.Profile, p *pipeline.Pipeline, exporter *metrics.Exporter) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		e:        e,
		Profile:  instanceProfile,
		pipeline: p,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: shortuuid.New,
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimitFor(instanceProfile.MaxUploadBytes)))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(10),
			Burst:     30,
			ExpiresIn: 3 * time.Minute,
		},
	)))
	e.Use(requestLogger())

	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	apiV1 := e.Group("/api/v1")
	apiV1.POST("/documents/summarize", s.handleSummarize)

	return s, nil
}

// Start begins serving in the background. Errors other than a clean
// shutdown are logged, not returned; startup failures surface immediately
// on the first request.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.e.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
}

// bodyLimitFor converts the upload cap into echo's body-limit syntax, with
// headroom for multipart framing around the file itself.
func bodyLimitFor(maxUploadBytes int64) string {
	if maxUploadBytes <= 0 {
		maxUploadBytes = document.MaxDocumentBytes
	}
	return fmt.Sprintf("%dM", maxUploadBytes/(1024*1024)+1)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
				slog.Warn("http request", attrs...)
				return nil
			}
			slog.Info("http request", attrs...)
			return nil
		},
	})
}
