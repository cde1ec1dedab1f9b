package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type PenaltyRepo struct {
	pool *pgxpool.Pool
}

func NewPenaltyRepo(pool *pgxpool.Pool) *PenaltyRepo {
	return &PenaltyRepo{pool: pool}
}

func (r *PenaltyRepo) Create(ctx context.Context, p *models.Penalty) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO penalties (campaign_id, influencer_id, reason, description, type, status, applied_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, p.CampaignID, p.InfluencerID, p.Reason, p.Description, p.Type, p.Status, p.AppliedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Exists keeps the overdue-detection job idempotent: one penalty per
// campaign, influencer and reason.
func (r *PenaltyRepo) Exists(ctx context.Context, campaignID, influencerID uuid.UUID, reason string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM penalties WHERE campaign_id = $1 AND influencer_id = $2 AND reason = $3
		)
	`, campaignID, influencerID, reason).Scan(&exists)
	return exists, err
}

func (r *PenaltyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Penalty, error) {
	var p models.Penalty
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, influencer_id, reason, description, type, status, applied_by, created_at, updated_at
		FROM penalties WHERE id = $1
	`, id).Scan(&p.ID, &p.CampaignID, &p.InfluencerID, &p.Reason, &p.Description, &p.Type, &p.Status, &p.AppliedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PenaltyRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Penalty, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, influencer_id, reason, description, type, status, applied_by, created_at, updated_at
		FROM penalties WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var penalties []models.Penalty
	for rows.Next() {
		var p models.Penalty
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.InfluencerID, &p.Reason, &p.Description, &p.Type, &p.Status, &p.AppliedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

func (r *PenaltyRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE penalties SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
