package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"adgallery/internal/http/middleware"
	"adgallery/internal/model"
	"adgallery/internal/repository"
	"adgallery/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// validationErrs are rejected inputs whose message is safe to echo back.
var validationErrs = []error{
	model.ErrWorkspaceRequired,
	model.ErrPromptTooLong,
	model.ErrNoImages,
	model.ErrImageFieldsMissing,
	model.ErrInvalidImageType,
	model.ErrAspectRatioRequired,
	model.ErrInvalidAspectRatio,
	model.ErrInvalidMode,
	model.ErrInvalidSize,
	service.ErrIDRequired,
	service.ErrUserIDRequired,
	service.ErrPromptRequired,
	service.ErrImageRequired,
	service.ErrDescriptionRequired,
}

func isValidationError(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// respondDomainError maps known service and repository errors onto client
// responses. Unrecognized errors are returned unchanged so the global
// error handler logs them and replies with an opaque 500.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, repository.ErrInvalidID):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, repository.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "ad not found")
	case errors.Is(err, service.ErrImageNotRemoved):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		return err
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes
// error responses. Unexpected errors are logged with their detail and
// answered with an opaque body.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			log.Error("request failed",
				zap.String("request_id", requestIDFromCtx(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
