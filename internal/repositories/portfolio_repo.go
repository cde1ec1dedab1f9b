package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type PortfolioRepo struct {
	pool *pgxpool.Pool
}

func NewPortfolioRepo(pool *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{pool: pool}
}

func (r *PortfolioRepo) Create(ctx context.Context, item *models.PortfolioItem) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO portfolio_items (influencer_id, title, url, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, item.InfluencerID, item.Title, item.URL, item.Description,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PortfolioRepo) ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]models.PortfolioItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, influencer_id, title, url, description, created_at, updated_at
		FROM portfolio_items WHERE influencer_id = $1 ORDER BY created_at DESC
	`, influencerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PortfolioItem
	for rows.Next() {
		var item models.PortfolioItem
		if err := rows.Scan(&item.ID, &item.InfluencerID, &item.Title, &item.URL, &item.Description,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete is owner-scoped: the influencer id is part of the predicate so one
// user can never remove another's item.
func (r *PortfolioRepo) Delete(ctx context.Context, id, influencerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM portfolio_items WHERE id = $1 AND influencer_id = $2
	`, id, influencerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
