package server

import (
	"errors"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/auth"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/config"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/db"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/guidance"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/logging"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/route"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/stream"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/tracking"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Querier
	Redis  *redis.Client
	Stream *stream.Hub
	Logger *zap.Logger
}

func NewServer(cfg config.Config, q db.Querier, redisClient *redis.Client, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     q,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient, logger.Named("stream")),
		Logger: logger,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	routes := route.NewService(s.DB)
	lookup := guidance.NewService(s.DB, s.Redis, s.Cfg.PublicBaseURL, s.Cfg.GuidanceCacheTTL, s.Logger.Named("guidance"))
	sessions := tracking.NewService(s.DB, s.Stream, routes, lookup, s.Logger.Named("tracking"), s.Cfg.CollaboratorTimeout)

	tracking.RegisterRoutes(s.App.Group("/api/running-sessions"), sessions, jwtMiddleware)
	route.RegisterRoutes(s.App.Group("/api/routes"), routes)
	guidance.RegisterRoutes(s.App.Group("/api/guidance"), lookup)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, s.Logger.Named("stream"))
}

// errorHandler renders every failed request as {"success":false,"message":...}.
// Errors without an explicit status are logged and hidden behind a generic 500.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := internalErrorMessage

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
	}
}
