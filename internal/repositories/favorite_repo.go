package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type FavoriteRepo struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepo(pool *pgxpool.Pool) *FavoriteRepo {
	return &FavoriteRepo{pool: pool}
}

// Add is idempotent; re-favoriting an item is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, f *models.Favorite) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO favorites (user_id, type, item_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, type, item_id) DO UPDATE SET user_id = favorites.user_id
		RETURNING id, created_at
	`, f.UserID, f.Type, f.ItemID).Scan(&f.ID, &f.CreatedAt)
}

func (r *FavoriteRepo) Remove(ctx context.Context, userID uuid.UUID, favType string, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND type = $2 AND item_id = $3
	`, userID, favType, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FavoriteRepo) List(ctx context.Context, userID uuid.UUID, favType string) ([]models.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, item_id, created_at
		FROM favorites WHERE user_id = $1 AND type = $2 ORDER BY created_at DESC
	`, userID, favType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.Type, &f.ItemID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}
