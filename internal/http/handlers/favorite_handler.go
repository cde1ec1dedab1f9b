package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/services"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	userID, _ := actor(c)
	favorites, err := h.favoriteService.List(c.Context(), userID, c.Query("type"))
	if err != nil {
		return err
	}
	return dto.OK(c, favorites)
}

func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	userID, _ := actor(c)

	var req dto.FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return apperr.Validation("invalid itemId")
	}

	favorite, err := h.favoriteService.Add(c.Context(), userID, req.Type, itemID)
	if err != nil {
		return err
	}
	return dto.Created(c, favorite)
}

func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	userID, _ := actor(c)

	itemID, err := uuid.Parse(c.Query("itemId"))
	if err != nil {
		return apperr.Validation("invalid itemId")
	}

	if err := h.favoriteService.Remove(c.Context(), userID, c.Query("type"), itemID); err != nil {
		return err
	}
	return dto.OK(c, fiber.Map{"removed": true})
}

func (h *FavoriteHandler) Check(c *fiber.Ctx) error {
	userID, _ := actor(c)

	itemID, err := uuid.Parse(c.Query("itemId"))
	if err != nil {
		return apperr.Validation("invalid itemId")
	}

	favorited, err := h.favoriteService.Check(c.Context(), userID, c.Query("type"), itemID)
	if err != nil {
		return err
	}
	return dto.OK(c, fiber.Map{"favorited": favorited})
}
