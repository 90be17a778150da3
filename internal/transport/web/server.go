package web

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/log"
)

// Dataset is the live hospital list as the HTTP API needs it.
type Dataset interface {
	core.HospitalStore
	Len() int
	Replace(records []core.HospitalRecord)
}

// Server exposes the conversation and dataset over HTTP. It implements
// srv.Service.
type Server struct {
	app         *fiber.App
	cfg         *config.HTTPConfig
	conv        core.Conversation
	data        Dataset
	datasetPath string
	gatherer    prometheus.Gatherer
	onReload    func(source string, records int, err error)
}

type Option func(*Server)

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithReloadHook is called after every upload attempt.
func WithReloadHook(fn func(source string, records int, err error)) Option {
	return func(s *Server) { s.onReload = fn }
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, conv core.Conversation, data Dataset, datasetPath string, opts ...Option) *Server {
	s := &Server{
		cfg:         cfg,
		conv:        conv,
		data:        data,
		datasetPath: datasetPath,
	}
	for _, opt := range opts {
		opt(s)
	}

	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}

	s.app = fiber.New(fiber.Config{
		AppName:               core.LoopName,
		ServerHeader:          core.LoopUserAgent,
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit * 1024 * 1024,
		ReadTimeout:           cfg.ReadTimeout,
		ErrorHandler:          errorHandler(ctx),
		Immutable:             true,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	s.app.Use(requestLogger(ctx))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	s.app.Post("/converse", s.converse)
	s.app.Post("/search-hospitals", s.searchHospitals)
	s.app.Post("/search-by-city", s.searchByCity)
	s.app.Post("/upload-csv", s.uploadCSV)

	s.app.Post("/twilio/voice", s.twilioVoice)
	s.app.Post("/twilio/process-speech", s.twilioProcessSpeech)

	if s.gatherer != nil {
		metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
		s.app.Get("/metrics", func(c *fiber.Ctx) error {
			metrics(c.Context())
			return nil
		})
	}
}

// App is exposed for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")
	if err := s.app.Listen(s.cfg.Addr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("shutting down http server")
	return s.app.ShutdownWithContext(ctx)
}

func errorHandler(ctx context.Context) fiber.ErrorHandler {
	logger := log.FromCtx(ctx)
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if code == fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Msg("internal server error")
		}

		return c.Status(code).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}
}

func requestLogger(ctx context.Context) fiber.Handler {
	logger := log.FromCtx(ctx)
	return func(c *fiber.Ctx) error {
		started := time.Now()
		c.SetUserContext(logger.WithContext(c.UserContext()))
		err := c.Next()
		logger.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(started)).
			Msg("http request")
		return err
	}
}
