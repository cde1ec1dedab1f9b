package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

type ReviewService struct {
	campaignRepo *repositories.CampaignRepo
	reviewRepo   *repositories.ReviewRepo
}

func NewReviewService(campaignRepo *repositories.CampaignRepo, reviewRepo *repositories.ReviewRepo) *ReviewService {
	return &ReviewService{campaignRepo: campaignRepo, reviewRepo: reviewRepo}
}

// Create lets a campaign owner rate a selected influencer once the campaign
// is COMPLETED. One review per (campaign, advertiser, influencer).
func (s *ReviewService) Create(ctx context.Context, campaignID, advertiserID, influencerID uuid.UUID, actorRole string, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("campaign not found")
		}
		return nil, err
	}
	if campaign.AdvertiserID != advertiserID && actorRole != models.RoleAdmin {
		return nil, apperr.Forbidden("not the campaign owner")
	}
	if campaign.Status != models.CampaignStatusCompleted {
		return nil, apperr.Validation("완료된 캠페인만 리뷰할 수 있습니다.")
	}
	if !campaign.IsSelected(influencerID) {
		return nil, apperr.Validation("선정된 인플루언서만 리뷰할 수 있습니다.")
	}

	exists, err := s.reviewRepo.Exists(ctx, campaignID, campaign.AdvertiserID, influencerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("이미 리뷰를 작성했습니다.")
	}

	review := &models.Review{
		CampaignID:   campaignID,
		AdvertiserID: campaign.AdvertiserID,
		InfluencerID: influencerID,
		Rating:       rating,
		Comment:      comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

type InfluencerReviews struct {
	Reviews []models.Review `json:"reviews"`
	Average float64         `json:"average"`
	Count   int             `json:"count"`
}

func (s *ReviewService) ListByInfluencer(ctx context.Context, influencerID uuid.UUID, limit, offset int) (*InfluencerReviews, error) {
	reviews, err := s.reviewRepo.ListByInfluencer(ctx, influencerID, limit, offset)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.reviewRepo.AverageRating(ctx, influencerID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &InfluencerReviews{Reviews: reviews, Average: avg, Count: count}, nil
}
