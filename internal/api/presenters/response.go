package presenters

import (
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

// PartialResponse is a success that carries a warning: the data was stored
// but a follow-up step did not complete.
func PartialResponse(c *fiber.Ctx, data any, message string, err error) error {
	res := Response{
		Status:  "partial",
		Message: message,
		Data:    data,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(fiber.StatusMultiStatus).JSON(res)
}
