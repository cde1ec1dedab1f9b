package services

import (
	"context"
	"strings"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

type SearchService struct {
	campaignRepo *repositories.CampaignRepo
	userRepo     *repositories.UserRepo
}

func NewSearchService(campaignRepo *repositories.CampaignRepo, userRepo *repositories.UserRepo) *SearchService {
	return &SearchService{campaignRepo: campaignRepo, userRepo: userRepo}
}

type SearchResult struct {
	Campaigns   []models.Campaign `json:"campaigns"`
	Influencers []models.User     `json:"influencers"`
}

// Search matches open campaigns by title and influencers by name/bio.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("검색어를 입력해주세요.")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	open := models.CampaignStatusOpen
	campaigns, err := s.campaignRepo.List(ctx, repositories.CampaignFilter{
		Status: &open,
		Search: query,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	influencers, err := s.userRepo.SearchInfluencers(ctx, repositories.InfluencerFilter{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Campaigns: campaigns, Influencers: influencers}
	if result.Campaigns == nil {
		result.Campaigns = []models.Campaign{}
	}
	if result.Influencers == nil {
		result.Influencers = []models.User{}
	}
	return result, nil
}
