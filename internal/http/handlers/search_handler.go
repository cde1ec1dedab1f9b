package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/services"
)

type SearchHandler struct {
	searchService     *services.SearchService
	submissionService *services.SubmissionService
}

func NewSearchHandler(searchService *services.SearchService, submissionService *services.SubmissionService) *SearchHandler {
	return &SearchHandler{searchService: searchService, submissionService: submissionService}
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	result, err := h.searchService.Search(c.Context(), c.Query("q"), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return dto.OK(c, result)
}

// Insights exposes an influencer's aggregated approved-submission metrics.
// Influencers may only read their own.
func (h *SearchHandler) Insights(c *fiber.Ctx) error {
	userID, role := actor(c)

	influencerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.NotFound("influencer not found")
	}
	if role == "influencer" && influencerID != userID {
		return apperr.Forbidden("본인의 인사이트만 조회할 수 있습니다.")
	}

	insights, err := h.submissionService.Insights(c.Context(), influencerID)
	if err != nil {
		return err
	}
	return dto.OK(c, insights)
}
