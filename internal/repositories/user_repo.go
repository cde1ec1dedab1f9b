package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

var ErrNotFound = errors.New("not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	profile, err := json.Marshal(u.Profile)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, display_name, role, profile)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.DisplayName, u.Role, profile,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, display_name, role, profile, created_at, updated_at
		FROM users WHERE id = $1
	`, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, display_name, role, profile, created_at, updated_at
		FROM users WHERE email = $1
	`, email))
}

func (r *UserRepo) scanOne(row pgx.Row) (*models.User, error) {
	var u models.User
	var profile []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &profile, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(profile, &u.Profile)
	return &u, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, p models.UserProfile) error {
	profile, err := json.Marshal(p)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET display_name = $1, profile = $2, updated_at = now() WHERE id = $3
	`, displayName, profile, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type InfluencerFilter struct {
	Query        string // matched against display name and bio
	Platform     string
	MinFollowers int
	Limit        int
	Offset       int
}

// SearchInfluencers returns public influencer profiles matching the filter.
func (r *UserRepo) SearchInfluencers(ctx context.Context, f InfluencerFilter) ([]models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, role, profile, created_at, updated_at
		FROM users
		WHERE role = 'influencer'
	`
	args := []any{}
	argIdx := 1

	if f.Query != "" {
		query += fmt.Sprintf(" AND (display_name ILIKE $%d OR profile->>'bio' ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Query+"%")
		argIdx++
	}
	if f.Platform != "" {
		query += fmt.Sprintf(" AND profile->'platforms' ? $%d", argIdx)
		args = append(args, f.Platform)
		argIdx++
	}
	if f.MinFollowers > 0 {
		query += fmt.Sprintf(" AND COALESCE((profile->>'followerCount')::int, 0) >= $%d", argIdx)
		args = append(args, f.MinFollowers)
		argIdx++
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var profile []byte
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &profile, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(profile, &u.Profile)
		users = append(users, u)
	}
	return users, nil
}
