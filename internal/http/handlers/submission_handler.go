package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/services"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	userID, _ := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	sub, err := h.submissionService.Submit(c.Context(), id, userID, req.PostURL, req.ScreenshotURLs, req.Metrics)
	if err != nil {
		return err
	}
	return dto.Created(c, sub)
}

func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	subs, err := h.submissionService.ListForCampaign(c.Context(), id, userID, role)
	if err != nil {
		return err
	}
	return dto.OK(c, subs)
}

func (h *SubmissionHandler) Review(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}
	subID, err := uuid.Parse(c.Params("subId"))
	if err != nil {
		return apperr.NotFound("submission not found")
	}

	var req dto.ReviewSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	sub, err := h.submissionService.Review(c.Context(), id, subID, userID, role, req.Action, req.Feedback)
	if err != nil {
		return err
	}
	return dto.OK(c, sub)
}
