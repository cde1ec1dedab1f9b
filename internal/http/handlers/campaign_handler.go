package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/middleware"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/services"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
}

func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

func actor(c *fiber.Ctx) (uuid.UUID, string) {
	return c.Locals(middleware.LocalUserID).(uuid.UUID), c.Locals(middleware.LocalRole).(string)
}

func campaignID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("campaign not found")
	}
	return id, nil
}

func (h *CampaignHandler) Generate(c *fiber.Ctx) error {
	userID, _ := actor(c)

	var req dto.GenerateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	campaign, spec, err := h.campaignService.Generate(c.Context(), userID, req.NaturalLanguageInput)
	if err != nil {
		return err
	}
	return dto.Created(c, fiber.Map{"campaign": campaign, "spec": spec})
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	userID, _ := actor(c)

	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	campaign, err := h.campaignService.CreateDirect(c.Context(), userID, req.Title, req.ProposalMarkdown, req.SpecJSON)
	if err != nil {
		return err
	}
	return dto.Created(c, campaign)
}

// Regenerate produces a fresh proposal for a campaign still in review.
func (h *CampaignHandler) Regenerate(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	var req dto.RegenerateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	campaign, spec, err := h.campaignService.Regenerate(c.Context(), id, userID, role, req.NaturalLanguageInput)
	if err != nil {
		return err
	}
	return dto.Created(c, fiber.Map{"campaign": campaign, "spec": spec})
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	userID, role := actor(c)

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	page, err := h.campaignService.List(c.Context(), userID, role, status, c.QueryInt("limit", 20), c.Query("cursor"))
	if err != nil {
		return err
	}
	return dto.OK(c, page)
}

// ListOpen is the influencer-facing open-campaign feed.
func (h *CampaignHandler) ListOpen(c *fiber.Ctx) error {
	userID, role := actor(c)

	open := models.CampaignStatusOpen
	page, err := h.campaignService.List(c.Context(), userID, role, &open, c.QueryInt("limit", 20), c.Query("cursor"))
	if err != nil {
		return err
	}
	return dto.OK(c, page)
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	campaign, err := h.campaignService.Get(c.Context(), id, userID, role)
	if err != nil {
		return err
	}

	spec, err := h.campaignService.GetCurrentSpec(c.Context(), campaign)
	if err != nil {
		return err
	}
	return dto.OK(c, fiber.Map{"campaign": campaign, "currentSpec": spec})
}

func (h *CampaignHandler) Approve(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	var req dto.ApproveCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	campaign, err := h.campaignService.Approve(c.Context(), id, userID, role, req.Action, req.Reason)
	if err != nil {
		return err
	}
	return dto.OK(c, campaign)
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	if err := h.campaignService.Delete(c.Context(), id, userID, role); err != nil {
		return err
	}
	return dto.OK(c, fiber.Map{"deleted": true})
}

func (h *CampaignHandler) GetSpecs(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	specs, err := h.campaignService.GetSpecVersions(c.Context(), id, userID, role)
	if err != nil {
		return err
	}
	return dto.OK(c, specs)
}

func (h *CampaignHandler) GetEvents(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	evts, err := h.campaignService.GetEvents(c.Context(), id, userID, role, c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return dto.OK(c, evts)
}
