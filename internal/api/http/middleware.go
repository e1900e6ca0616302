package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/observability"
	"github.com/careerhub/career-api/internal/ratelimit"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// MiddlewareConfig bundles settings for the global middleware chain.
type MiddlewareConfig struct {
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Timeout    time.Duration
	CORSOrigin string
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: cfg.CORSOrigin != "" && cfg.CORSOrigin != "*",
	}))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(observability.RequestLogger(logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(logger, cfg.Metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders errors as {success:false, message} with
// any error details merged into the top level object.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = writeError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

	response := fiber.Map{}
	for k, v := range domainErr.Details {
		response[k] = v
	}
	response["success"] = false
	response["message"] = domainErr.Message
	response["code"] = domainErr.Code

	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
	}
	return c.Status(domainErr.HTTPStatus).JSON(response)
}

// ErrorHandler is the fiber fallback for errors raised outside the
// middleware chain, such as unmatched routes.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, logger, metrics, err)
	}
}

// RateLimit rejects callers that exceed limit requests per window, keyed by
// client IP and route.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || limit <= 0 {
			return c.Next()
		}
		key := c.IP() + ":" + c.Path()
		if !limiter.Allow(c.UserContext(), key, limit, window) {
			return apperrors.NewTooManyRequests("Too many requests. Please try again later.")
		}
		return c.Next()
	}
}
