package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) Create(ctx context.Context, rev *models.Review) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO reviews (campaign_id, advertiser_id, influencer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, rev.CampaignID, rev.AdvertiserID, rev.InfluencerID, rev.Rating, rev.Comment,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
}

func (r *ReviewRepo) Exists(ctx context.Context, campaignID, advertiserID, influencerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM reviews WHERE campaign_id = $1 AND advertiser_id = $2 AND influencer_id = $3
		)
	`, campaignID, advertiserID, influencerID).Scan(&exists)
	return exists, err
}

func (r *ReviewRepo) ListByInfluencer(ctx context.Context, influencerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, advertiser_id, influencer_id, rating, comment, created_at, updated_at
		FROM reviews WHERE influencer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, influencerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.CampaignID, &rev.AdvertiserID, &rev.InfluencerID, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// AverageRating returns 0 when the influencer has no reviews yet.
func (r *ReviewRepo) AverageRating(ctx context.Context, influencerID uuid.UUID) (float64, int, error) {
	var avg *float64
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT AVG(rating)::float8, COUNT(*) FROM reviews WHERE influencer_id = $1
	`, influencerID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	if avg == nil {
		return 0, 0, nil
	}
	return *avg, count, nil
}
