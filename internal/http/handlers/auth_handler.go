package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/middleware"
	"github.com/influmatch/backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	user, token, err := h.authService.Signup(c.Context(), req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		return err
	}
	return dto.Created(c, dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	user, token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return dto.OK(c, dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalUserID).(uuid.UUID)
	user, err := h.authService.GetUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return dto.OK(c, user)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalUserID).(uuid.UUID)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	user, err := h.authService.UpdateProfile(c.Context(), userID, req.DisplayName, req.Profile)
	if err != nil {
		return err
	}
	return dto.OK(c, user)
}
