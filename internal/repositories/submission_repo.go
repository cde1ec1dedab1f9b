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

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

func (r *SubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	screenshots, err := json.Marshal(emptyIfNil(s.ScreenshotURLs))
	if err != nil {
		return err
	}
	metrics, err := json.Marshal(s.Metrics)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO submissions (campaign_id, influencer_id, application_id, post_url, screenshot_urls, metrics, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, submitted_at, updated_at
	`, s.CampaignID, s.InfluencerID, s.ApplicationID, s.PostURL, screenshots, metrics, s.Status,
	).Scan(&s.ID, &s.SubmittedAt, &s.UpdatedAt)
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return scanSubmission(r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, influencer_id, application_id, post_url, screenshot_urls, metrics,
		       status, feedback, submitted_at, updated_at, approved_at
		FROM submissions WHERE id = $1
	`, id))
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	var screenshots, metrics []byte
	err := row.Scan(&s.ID, &s.CampaignID, &s.InfluencerID, &s.ApplicationID, &s.PostURL, &screenshots, &metrics,
		&s.Status, &s.Feedback, &s.SubmittedAt, &s.UpdatedAt, &s.ApprovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(screenshots, &s.ScreenshotURLs)
	_ = json.Unmarshal(metrics, &s.Metrics)
	return &s, nil
}

type SubmissionFilter struct {
	CampaignID   *uuid.UUID
	InfluencerID *uuid.UUID
	Status       *string
}

func (r *SubmissionRepo) List(ctx context.Context, f SubmissionFilter) ([]models.Submission, error) {
	query := `
		SELECT id, campaign_id, influencer_id, application_id, post_url, screenshot_urls, metrics,
		       status, feedback, submitted_at, updated_at, approved_at
		FROM submissions WHERE 1=1
	`
	args := []any{}
	if f.CampaignID != nil {
		args = append(args, *f.CampaignID)
		query += fmt.Sprintf(" AND campaign_id = $%d", len(args))
	}
	if f.InfluencerID != nil {
		args = append(args, *f.InfluencerID)
		query += fmt.Sprintf(" AND influencer_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var s models.Submission
		var screenshots, metrics []byte
		if err := rows.Scan(&s.ID, &s.CampaignID, &s.InfluencerID, &s.ApplicationID, &s.PostURL, &screenshots, &metrics,
			&s.Status, &s.Feedback, &s.SubmittedAt, &s.UpdatedAt, &s.ApprovedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(screenshots, &s.ScreenshotURLs)
		_ = json.Unmarshal(metrics, &s.Metrics)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, feedback *string, approvedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE submissions SET status = $1, feedback = $2, approved_at = COALESCE($3, approved_at), updated_at = now()
		WHERE id = $4
	`, status, feedback, approvedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HasApprovedSubmission reports whether the influencer has at least one
// approved submission on the campaign. The auto-complete job gates on this.
func (r *SubmissionRepo) HasApprovedSubmission(ctx context.Context, campaignID, influencerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM submissions
			WHERE campaign_id = $1 AND influencer_id = $2 AND status = $3
		)
	`, campaignID, influencerID, models.SubmissionStatusApproved).Scan(&exists)
	return exists, err
}

// MetricAggregate carries the sum and count of one metric across a
// campaign's approved submissions.
type MetricAggregate struct {
	Metric string
	Total  float64
	Count  int
}

// AggregateMetrics flattens the metrics maps of all approved submissions
// into per-metric sums.
func (r *SubmissionRepo) AggregateMetrics(ctx context.Context, campaignID uuid.UUID) ([]MetricAggregate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.key, SUM((m.value)::numeric)::float8, COUNT(*)
		FROM submissions s, jsonb_each_text(s.metrics) m
		WHERE s.campaign_id = $1 AND s.status = $2
		GROUP BY m.key
		ORDER BY m.key
	`, campaignID, models.SubmissionStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggs []MetricAggregate
	for rows.Next() {
		var a MetricAggregate
		if err := rows.Scan(&a.Metric, &a.Total, &a.Count); err != nil {
			return nil, err
		}
		aggs = append(aggs, a)
	}
	return aggs, rows.Err()
}
