package response

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the flat error body every endpoint returns.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Details   string      `json:"details,omitempty"`
	ManimCode string      `json:"manim_code,omitempty"`
	Checks    interface{} `json:"checks,omitempty"`
}

func Error(c *fiber.Ctx, status int, body ErrorResponse) error {
	return c.Status(status).JSON(body)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, ErrorResponse{Error: message})
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, ErrorResponse{Error: message})
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, ErrorResponse{Error: message})
}

func RateLimited(c *fiber.Ctx) error {
	return Error(c, fiber.StatusTooManyRequests, ErrorResponse{Error: "Rate limit exceeded"})
}

func InternalError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}
