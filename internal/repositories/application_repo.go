package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

func (r *ApplicationRepo) Create(ctx context.Context, a *models.Application) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO applications (campaign_id, influencer_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, a.CampaignID, a.InfluencerID, a.Message, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return scanApplication(r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, influencer_id, message, status, selected_at, created_at, updated_at
		FROM applications WHERE id = $1
	`, id))
}

func (r *ApplicationRepo) GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Application, error) {
	return scanApplication(q.QueryRow(ctx, `
		SELECT id, campaign_id, influencer_id, message, status, selected_at, created_at, updated_at
		FROM applications WHERE id = $1 FOR UPDATE
	`, id))
}

func (r *ApplicationRepo) GetByCampaignAndInfluencer(ctx context.Context, campaignID, influencerID uuid.UUID) (*models.Application, error) {
	return scanApplication(r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, influencer_id, message, status, selected_at, created_at, updated_at
		FROM applications WHERE campaign_id = $1 AND influencer_id = $2
	`, campaignID, influencerID))
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.CampaignID, &a.InfluencerID, &a.Message, &a.Status, &a.SelectedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByCampaign joins the applicant's public profile so advertisers see
// who applied without a second round of lookups.
func (r *ApplicationRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, status *string) ([]models.ApplicationWithInfluencer, error) {
	query := `
		SELECT a.id, a.campaign_id, a.influencer_id, a.message, a.status, a.selected_at, a.created_at, a.updated_at,
		       u.display_name, u.email, u.profile
		FROM applications a
		JOIN users u ON u.id = a.influencer_id
		WHERE a.campaign_id = $1
	`
	args := []any{campaignID}
	if status != nil {
		query += fmt.Sprintf(" AND a.status = $%d", len(args)+1)
		args = append(args, *status)
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.ApplicationWithInfluencer
	for rows.Next() {
		var a models.ApplicationWithInfluencer
		var profile []byte
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.InfluencerID, &a.Message, &a.Status, &a.SelectedAt, &a.CreatedAt, &a.UpdatedAt,
			&a.InfluencerName, &a.InfluencerEmail, &profile); err != nil {
			return nil, err
		}
		var p models.UserProfile
		if json.Unmarshal(profile, &p) == nil {
			a.InfluencerProfile = &p
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepo) ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]models.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, influencer_id, message, status, selected_at, created_at, updated_at
		FROM applications WHERE influencer_id = $1 ORDER BY created_at DESC
	`, influencerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.InfluencerID, &a.Message, &a.Status, &a.SelectedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string, selectedAt *time.Time) error {
	_, err := q.Exec(ctx, `
		UPDATE applications SET status = $1, selected_at = COALESCE($2, selected_at), updated_at = now()
		WHERE id = $3
	`, status, selectedAt, id)
	return err
}
