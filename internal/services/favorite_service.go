package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

type FavoriteService struct {
	favoriteRepo *repositories.FavoriteRepo
}

func NewFavoriteService(favoriteRepo *repositories.FavoriteRepo) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo}
}

func validFavoriteType(t string) bool {
	return t == models.FavoriteTypeCampaigns || t == models.FavoriteTypeInfluencers
}

func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, favType string, itemID uuid.UUID) (*models.Favorite, error) {
	if !validFavoriteType(favType) {
		return nil, apperr.Validation("type must be campaigns or influencers")
	}
	f := &models.Favorite{UserID: userID, Type: favType, ItemID: itemID}
	if err := s.favoriteRepo.Add(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, favType string, itemID uuid.UUID) error {
	if !validFavoriteType(favType) {
		return apperr.Validation("type must be campaigns or influencers")
	}
	if err := s.favoriteRepo.Remove(ctx, userID, favType, itemID); err != nil {
		if err == repositories.ErrNotFound {
			return apperr.NotFound("favorite not found")
		}
		return err
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID, favType string) ([]models.Favorite, error) {
	if !validFavoriteType(favType) {
		return nil, apperr.Validation("type must be campaigns or influencers")
	}
	favorites, err := s.favoriteRepo.List(ctx, userID, favType)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, nil
}

func (s *FavoriteService) Check(ctx context.Context, userID uuid.UUID, favType string, itemID uuid.UUID) (bool, error) {
	if !validFavoriteType(favType) {
		return false, apperr.Validation("type must be campaigns or influencers")
	}
	favorites, err := s.favoriteRepo.List(ctx, userID, favType)
	if err != nil {
		return false, err
	}
	for _, f := range favorites {
		if f.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}
