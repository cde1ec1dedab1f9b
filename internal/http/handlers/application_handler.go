package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/services"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	userID, _ := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	app, err := h.applicationService.Apply(c.Context(), id, userID, req.Message)
	if err != nil {
		return err
	}
	return dto.Created(c, app)
}

func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	apps, err := h.applicationService.ListForCampaign(c.Context(), id, userID, role, status)
	if err != nil {
		return err
	}
	return dto.OK(c, apps)
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	userID, _ := actor(c)
	apps, err := h.applicationService.ListMine(c.Context(), userID)
	if err != nil {
		return err
	}
	return dto.OK(c, apps)
}

func (h *ApplicationHandler) Resolve(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}
	appID, err := uuid.Parse(c.Params("appId"))
	if err != nil {
		return apperr.NotFound("application not found")
	}

	var req dto.ResolveApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	app, err := h.applicationService.Resolve(c.Context(), id, appID, userID, role, req.Action)
	if err != nil {
		return err
	}
	return dto.OK(c, app)
}
