package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, role := actor(c)
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	influencerID, err := uuid.Parse(req.InfluencerID)
	if err != nil {
		return apperr.Validation("invalid influencerId")
	}

	review, err := h.reviewService.Create(c.Context(), id, userID, influencerID, role, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return dto.Created(c, review)
}

func (h *ReviewHandler) ListByInfluencer(c *fiber.Ctx) error {
	influencerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.NotFound("influencer not found")
	}

	reviews, err := h.reviewService.ListByInfluencer(c.Context(), influencerID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return dto.OK(c, reviews)
}
