package presenters

import (
	"errors"

	"recipe-finder/domain"

	"github.com/gofiber/fiber/v2"
)

type (
	Response struct {
		Status   bool   `json:"status"`
		Message  string `json:"message"`
		Data     any    `json:"data,omitempty"`
		Error    string `json:"error,omitempty"`
		Redirect string `json:"redirect,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:   false,
		Message:  message,
		Redirect: redirectFor(statusCode),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

// FromError picks the status code from the error's kind.
func FromError(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFor(err), message, err)
}

func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindValidationConflict:
		return fiber.StatusBadRequest
	case domain.KindPermissionDenied:
		return fiber.StatusForbidden
	case domain.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.KindExternalFetchFailure:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// redirectFor names the safe page a browser client should return to.
func redirectFor(statusCode int) string {
	switch statusCode {
	case fiber.StatusUnauthorized:
		return "/login/"
	case fiber.StatusForbidden, fiber.StatusNotFound:
		return "/"
	default:
		return ""
	}
}

// ErrorHandler is installed as the fiber ErrorHandler so nothing escapes a
// handler without the standard envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, domain.MessageFailedProcessRequest, err)
}
