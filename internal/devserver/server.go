// Package devserver is an in-memory implementation of the studio's REST backend, for local
// development and tests.
package devserver

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	echoprom "github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/pkg/logger"
)

// Options configure a Server.
type Options struct {
	// JWTSecret signs bearer tokens.
	JWTSecret string
	// TokenTTL bounds the validity of issued tokens.
	TokenTTL time.Duration
	// Metrics exposes echo request metrics on /metrics. The collectors are process-global.
	Metrics bool
	// Clock stamps rows and tokens; the real clock when nil.
	Clock clockwork.Clock
	Seed  Seed
}

// Server is the devserver.
type Server struct {
	log    *log.Entry
	echo   *echo.Echo
	store  *memStore
	tokens *tokenIssuer
}

// New builds a seeded server. It does not listen until Start is called.
func New(opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("a jwt secret is required")
	}
	if opts.TokenTTL <= 0 {
		return nil, errors.Errorf("token ttl must be positive, got %s", opts.TokenTTL)
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s := &Server{
		log:    log.WithField("component", "devserver"),
		store:  newMemStore(clock),
		tokens: &tokenIssuer{secret: []byte(opts.JWTSecret), ttl: opts.TokenTTL, clock: clock},
	}
	if err := s.store.seed(opts.Seed); err != nil {
		return nil, errors.Wrap(err, "seeding devserver")
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Logger = logger.NewEchoLogger(s.log)
	s.echo.HTTPErrorHandler = JSONErrorHandler

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		Skipper:            middleware.DefaultSkipper,
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
	}))
	s.echo.Use(s.requestLogger())
	if opts.Metrics {
		echoprom.NewPrometheus("yoga_devserver", nil).Use(s.echo)
	}
	// Register middleware that extends default context.
	s.echo.Use(wrapContext)

	s.RegisterAPIHandler(s.echo)
	return s, nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := s.log.WithFields(log.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
				"request-id": c.Request().Header.Get(api.RequestIDHeader),
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Debug("handled request")
			return nil
		},
	})
}

// Handler exposes the server for in-process use, e.g. with httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	s.log.WithField("addr", addr).Info("devserver listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving")
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
