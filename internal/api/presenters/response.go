package presenters

import (
	"Recipe-Generator/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{Status: false, Message: message}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFor maps the error taxonomy to an HTTP status. Only bad input is a
// client error. A generation answer that fails validation is still a 500.
func StatusFor(err error) int {
	var (
		genErr   *domain.GenerationError
		verr     *domain.ValidationError
		verrs    domain.ValidationErrors
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &genErr):
		return fiber.StatusInternalServerError
	case errors.As(err, &verr), errors.As(err, &verrs):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrExportNotConfigured):
		return fiber.StatusNotImplemented
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}
