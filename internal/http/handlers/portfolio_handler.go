package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

// PortfolioHandler manages the past-work links on influencer profiles.
// Anyone signed in can read a portfolio; only the owner mutates it.
type PortfolioHandler struct {
	portfolioRepo *repositories.PortfolioRepo
}

func NewPortfolioHandler(portfolioRepo *repositories.PortfolioRepo) *PortfolioHandler {
	return &PortfolioHandler{portfolioRepo: portfolioRepo}
}

func (h *PortfolioHandler) List(c *fiber.Ctx) error {
	influencerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.NotFound("influencer not found")
	}

	items, err := h.portfolioRepo.ListByInfluencer(c.Context(), influencerID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.PortfolioItem{}
	}
	return dto.OK(c, items)
}

func (h *PortfolioHandler) Add(c *fiber.Ctx) error {
	userID, _ := actor(c)

	var req dto.PortfolioItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperr.Validation("제목을 입력해주세요.")
	}
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return apperr.Validation("올바른 URL을 입력해주세요.")
	}

	item := &models.PortfolioItem{
		InfluencerID: userID,
		Title:        strings.TrimSpace(req.Title),
		URL:          req.URL,
		Description:  req.Description,
	}
	if err := h.portfolioRepo.Create(c.Context(), item); err != nil {
		return err
	}
	return dto.Created(c, item)
}

func (h *PortfolioHandler) Remove(c *fiber.Ctx) error {
	userID, _ := actor(c)

	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return apperr.NotFound("portfolio item not found")
	}

	if err := h.portfolioRepo.Delete(c.Context(), itemID, userID); err != nil {
		if err == repositories.ErrNotFound {
			return apperr.NotFound("portfolio item not found")
		}
		return err
	}
	return dto.OK(c, fiber.Map{"deleted": true})
}
