package serverutils

import (
	"errors"

	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/pkg/reco/retrieval"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler maps the service error taxonomy onto HTTP statuses.
// Capability failures surface as 503 so callers can retry; everything
// unclassified stays a logged 500.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		var validationErr *ValidationError

		switch {
		case errors.Is(err, retrieval.ErrRetrievalUnavailable):
			code = fiber.StatusServiceUnavailable
		case errors.As(err, &validationErr):
			code = fiber.StatusBadRequest
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		}

		if code >= 500 {
			log.Error("http", "request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"status": code,
				"error":  err.Error(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
