// Package http exposes chess sessions as a JSON API served by Fiber.
package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// Config tunes the API server
type Config struct {
	DevMode   bool
	RateLimit int // requests per second per IP; 0 selects the default, doubled in dev mode
	AccessLog bool
}

type HTTPHandler struct {
	svc *service.Service
}

func NewHTTPHandler(svc *service.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func NewFiberApp(svc *service.Service, cfg Config) *fiber.App {
	h := NewHTTPHandler(svc)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          35 * time.Second, // above the long-poll timeout
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := cfg.RateLimit
	if maxReq <= 0 {
		maxReq = rateLimitRate
		if cfg.DevMode {
			maxReq = rateLimitRate * 2
		}
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Check X-Forwarded-For first, then RemoteIP
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrCodeRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/select", h.SelectPiece)
	api.Post("/games/:gameId/hover", h.HoverSquare)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Post("/games/:gameId/reset", h.ResetGame)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/history", h.GetHistory)

	return app
}

// contentTypeValidator ensures POST requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrCodeInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrCodeInternalError,
	}

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrCodeGameNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrCodeInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrCodeRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps an engine or service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, core.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, core.ErrIllegalMove),
		errors.Is(err, core.ErrOutOfBounds),
		errors.Is(err, core.ErrNoPieceSelected):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// sendError writes err as an ErrorResponse with the mapped status and code
func sendError(c *fiber.Ctx, msg string, err error) error {
	return c.Status(statusFor(err)).JSON(core.ErrorResponse{
		Error:   msg,
		Code:    core.ErrorCode(err),
		Details: err.Error(),
	})
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(core.HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Unix(),
		Storage: h.svc.GetStorageHealth(),
		Games:   h.svc.GameCount(),
	})
}
