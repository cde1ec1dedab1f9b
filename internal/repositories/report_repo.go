package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, rep *models.Report) error {
	kpis, err := json.Marshal(rep.KPIResults)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO reports (campaign_id, summary, kpi_results, narrative, generated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, generated_at
	`, rep.CampaignID, rep.Summary, kpis, rep.Narrative, rep.GeneratedBy).Scan(&rep.ID, &rep.GeneratedAt)
}

func (r *ReportRepo) GetByCampaign(ctx context.Context, campaignID uuid.UUID) (*models.Report, error) {
	var rep models.Report
	var kpis []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, summary, kpi_results, narrative, generated_by, generated_at
		FROM reports WHERE campaign_id = $1
	`, campaignID).Scan(&rep.ID, &rep.CampaignID, &rep.Summary, &kpis, &rep.Narrative, &rep.GeneratedBy, &rep.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(kpis, &rep.KPIResults)
	return &rep, nil
}
