package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

// ContactHandler takes pre-signup inquiries and trial-interest surveys.
// Both endpoints are public.
type ContactHandler struct {
	contactRepo *repositories.ContactRepo
	surveyRepo  *repositories.SurveyRepo
}

func NewContactHandler(contactRepo *repositories.ContactRepo, surveyRepo *repositories.SurveyRepo) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo, surveyRepo: surveyRepo}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("이름을 입력해주세요.")
	}
	if !strings.Contains(req.Email, "@") {
		return apperr.Validation("올바른 이메일을 입력해주세요.")
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperr.Validation("문의 내용을 입력해주세요.")
	}

	contact := &models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: req.Message,
		Status:  models.ContactStatusNew,
	}
	if p := strings.TrimSpace(req.Phone); p != "" {
		contact.Phone = &p
	}
	if err := h.contactRepo.Create(c.Context(), contact); err != nil {
		return err
	}
	return dto.Created(c, contact)
}

func (h *ContactHandler) SubmitSurvey(c *fiber.Ctx) error {
	var req dto.SurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if req.Role != models.RoleAdvertiser && req.Role != models.RoleInfluencer {
		return apperr.Validation("역할을 선택해주세요.")
	}
	if len(req.Answers) == 0 {
		return apperr.Validation("설문 응답이 비어 있습니다.")
	}

	survey := &models.Survey{Role: req.Role, Answers: req.Answers}
	if err := h.surveyRepo.Create(c.Context(), survey); err != nil {
		return err
	}
	return dto.Created(c, survey)
}
