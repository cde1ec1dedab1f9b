package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

// AdminHandler serves the human-reviewed penalty queue, the contact inbox
// and the dashboard stats.
type AdminHandler struct {
	penaltyRepo *repositories.PenaltyRepo
	contactRepo *repositories.ContactRepo
	statsRepo   *repositories.StatsRepo
}

func NewAdminHandler(penaltyRepo *repositories.PenaltyRepo, contactRepo *repositories.ContactRepo, statsRepo *repositories.StatsRepo) *AdminHandler {
	return &AdminHandler{penaltyRepo: penaltyRepo, contactRepo: contactRepo, statsRepo: statsRepo}
}

func (h *AdminHandler) ListPenalties(c *fiber.Ctx) error {
	status := c.Query("status", models.PenaltyStatusPending)
	penalties, err := h.penaltyRepo.ListByStatus(c.Context(), status, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	if penalties == nil {
		penalties = []models.Penalty{}
	}
	return dto.OK(c, penalties)
}

func (h *AdminHandler) ResolvePenalty(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.NotFound("penalty not found")
	}

	if err := h.penaltyRepo.UpdateStatus(c.Context(), id, models.PenaltyStatusResolved); err != nil {
		if err == repositories.ErrNotFound {
			return apperr.NotFound("penalty not found")
		}
		return err
	}

	penalty, err := h.penaltyRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return dto.OK(c, penalty)
}

func (h *AdminHandler) ListContacts(c *fiber.Ctx) error {
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}
	contacts, err := h.contactRepo.List(c.Context(), status, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	return dto.OK(c, contacts)
}

func (h *AdminHandler) HandleContact(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.NotFound("contact not found")
	}

	if err := h.contactRepo.UpdateStatus(c.Context(), id, models.ContactStatusHandled); err != nil {
		if err == repositories.ErrNotFound {
			return apperr.NotFound("contact not found")
		}
		return err
	}
	return dto.OK(c, fiber.Map{"handled": true})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.statsRepo.Collect(c.Context())
	if err != nil {
		return err
	}
	return dto.OK(c, stats)
}
