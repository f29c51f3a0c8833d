package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"connected/pkg/apperr"
	"connected/pkg/middleware"
)

// BodyLimit leaves room for a 5MB avatar plus multipart framing.
const BodyLimit = 6 << 20

func NewApp(name, corsOrigins string, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:           name,
		ReduceMemoryUsage: true,
		BodyLimit:         BodyLimit,
		ErrorHandler:      ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(cors.New(middleware.CORSConfig(corsOrigins)))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})

	return app
}

// ErrorHandler renders service errors as {"message": ...} with the status
// matching their kind. Storage failures are logged and hidden.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		status := fiber.StatusInternalServerError
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			status = fiber.StatusNotFound
		case apperr.KindValidation:
			status = fiber.StatusBadRequest
		case apperr.KindUnauthorized:
			status = fiber.StatusUnauthorized
		case apperr.KindForbidden:
			status = fiber.StatusForbidden
		default:
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(fiber.Map{"message": apperr.MessageOf(err)})
	}
}
