// Package api serves the statement parser over HTTP with fiber.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/insightdelivered/cc-statement-parser/internal/metrics"
	"github.com/insightdelivered/cc-statement-parser/internal/statement"
)

// Options configures the HTTP app.
type Options struct {
	Version string
	// BodyLimit caps the uploaded file in bytes; zero keeps fiber's default.
	// The request body may exceed it by multipartOverhead for the form
	// envelope.
	BodyLimit int
	// Metrics, when set, is served on /metrics.
	Metrics *metrics.Recorder
	Logger  *zerolog.Logger
}

// multipartOverhead is the room left for multipart boundaries and form
// fields on top of the file size limit.
const multipartOverhead = 64 << 10

// New builds the fiber app with its middleware and routes.
func New(p *statement.Parser, opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger
	}

	bodyLimit := opts.BodyLimit
	if bodyLimit > 0 {
		bodyLimit += multipartOverhead
	}
	app := fiber.New(fiber.Config{
		AppName:               "cc-statement-parser",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(requestLogger(*logger))

	h := &Handler{parser: p, version: opts.Version, maxUpload: int64(opts.BodyLimit)}
	app.Get("/", h.HandleRoot)
	app.Get("/health", h.HandleHealth)
	app.Get("/api/health", h.HandleHealth)
	app.Post("/parse", h.HandleParse)
	app.Post("/api/parse", h.HandleParse)
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}
	return app
}

// requestLogger tags each request with an id and carries a logger holding
// it in the request context.
func requestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)

		logger := base.With().Str("request_id", id).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext()))

		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		logger.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

// errorHandler renders fiber errors (404, 413, recovered panics) in the API
// error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ParseResponse{Success: false, Error: err.Error()})
}
