package dto

import (
	"github.com/gofiber/fiber/v2"

	"github.com/influmatch/backend/internal/models"
)

// Envelope is the uniform response shape: success plus either data or a
// coded error.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
