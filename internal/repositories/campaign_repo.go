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

const campaignColumns = `
	id, advertiser_id, status, title, natural_language_input,
	approved_at, opened_at, completed_at, deadline_date, estimated_duration_days,
	current_spec_version_id, selected_influencer_ids, created_at, updated_at`

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

func (r *CampaignRepo) Create(ctx context.Context, q Querier, c *models.Campaign) error {
	selected, err := json.Marshal(emptyIfNil(c.SelectedInfluencerIDs))
	if err != nil {
		return err
	}
	return q.QueryRow(ctx, `
		INSERT INTO campaigns (advertiser_id, status, title, natural_language_input,
		                       deadline_date, estimated_duration_days, selected_influencer_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.AdvertiserID, c.Status, c.Title, c.NaturalLanguageInput,
		c.DeadlineDate, c.EstimatedDuration, selected,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
}

// GetByIDForUpdate locks the row inside the caller's transaction so the
// selected-influencer list cannot be mutated concurrently.
func (r *CampaignRepo) GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(q.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 FOR UPDATE`, id))
}

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	var selected []byte
	err := row.Scan(&c.ID, &c.AdvertiserID, &c.Status, &c.Title, &c.NaturalLanguageInput,
		&c.ApprovedAt, &c.OpenedAt, &c.CompletedAt, &c.DeadlineDate, &c.EstimatedDuration,
		&c.CurrentSpecVersionID, &selected, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(selected, &c.SelectedInfluencerIDs)
	if c.SelectedInfluencerIDs == nil {
		c.SelectedInfluencerIDs = []string{}
	}
	return &c, nil
}

type CampaignFilter struct {
	AdvertiserID  *uuid.UUID
	Status        *string
	Search        string     // ILIKE over the title
	CreatedBefore *time.Time // keyset cursor
	CursorID      *uuid.UUID // cursor tiebreaker for rows sharing created_at
	Limit         int
	Offset        int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.AdvertiserID != nil {
		where = append(where, fmt.Sprintf("advertiser_id = $%d", argIdx))
		args = append(args, *f.AdvertiserID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("title ILIKE $%d", argIdx))
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if f.CreatedBefore != nil {
		if f.CursorID != nil {
			where = append(where, fmt.Sprintf("(created_at, id) < ($%d, $%d)", argIdx, argIdx+1))
			args = append(args, *f.CreatedBefore, *f.CursorID)
			argIdx += 2
		} else {
			where = append(where, fmt.Sprintf("created_at < $%d", argIdx))
			args = append(args, *f.CreatedBefore)
			argIdx++
		}
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func collectCampaigns(rows pgx.Rows) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var selected []byte
		if err := rows.Scan(&c.ID, &c.AdvertiserID, &c.Status, &c.Title, &c.NaturalLanguageInput,
			&c.ApprovedAt, &c.OpenedAt, &c.CompletedAt, &c.DeadlineDate, &c.EstimatedDuration,
			&c.CurrentSpecVersionID, &selected, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(selected, &c.SelectedInfluencerIDs)
		if c.SelectedInfluencerIDs == nil {
			c.SelectedInfluencerIDs = []string{}
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error {
	_, err := q.Exec(ctx, `UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// MarkApprovedOpen stamps approval and opening together: the approve action
// takes a campaign straight to OPEN.
func (r *CampaignRepo) MarkApprovedOpen(ctx context.Context, q Querier, id uuid.UUID, at time.Time) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET status = $1, approved_at = $2, opened_at = $2, updated_at = now() WHERE id = $3
	`, models.CampaignStatusOpen, at, id)
	return err
}

func (r *CampaignRepo) MarkOpened(ctx context.Context, q Querier, id uuid.UUID, at time.Time, deadline *time.Time) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET status = $1, opened_at = $2, deadline_date = COALESCE($3, deadline_date), updated_at = now()
		WHERE id = $4
	`, models.CampaignStatusOpen, at, deadline, id)
	return err
}

func (r *CampaignRepo) MarkCompleted(ctx context.Context, q Querier, id uuid.UUID, at time.Time) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET status = $1, completed_at = $2, updated_at = now() WHERE id = $3
	`, models.CampaignStatusCompleted, at, id)
	return err
}

func (r *CampaignRepo) UpdateTitle(ctx context.Context, q Querier, id uuid.UUID, title string) error {
	_, err := q.Exec(ctx, `UPDATE campaigns SET title = $1, updated_at = now() WHERE id = $2`, title, id)
	return err
}

func (r *CampaignRepo) SetDeadline(ctx context.Context, q Querier, id uuid.UUID, deadline time.Time) error {
	_, err := q.Exec(ctx, `UPDATE campaigns SET deadline_date = $1, updated_at = now() WHERE id = $2`, deadline, id)
	return err
}

func (r *CampaignRepo) SetCurrentSpecVersion(ctx context.Context, q Querier, id, versionID uuid.UUID, estimatedDurationDays int) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET current_spec_version_id = $1, estimated_duration_days = $2, updated_at = now()
		WHERE id = $3
	`, versionID, estimatedDurationDays, id)
	return err
}

func (r *CampaignRepo) SetSelectedInfluencers(ctx context.Context, q Querier, id uuid.UUID, influencerIDs []string) error {
	selected, err := json.Marshal(emptyIfNil(influencerIDs))
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		UPDATE campaigns SET selected_influencer_ids = $1, updated_at = now() WHERE id = $2
	`, selected, id)
	return err
}

// DeleteCascade removes the campaign and everything hanging off it inside
// one transaction: either the whole subtree goes or none of it does.
func (r *CampaignRepo) DeleteCascade(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	for _, stmt := range []string{
		`DELETE FROM submissions WHERE campaign_id = $1`,
		`DELETE FROM applications WHERE campaign_id = $1`,
		`DELETE FROM events WHERE campaign_id = $1`,
		`DELETE FROM penalties WHERE campaign_id = $1`,
		`DELETE FROM reports WHERE campaign_id = $1`,
		`DELETE FROM reviews WHERE campaign_id = $1`,
		`DELETE FROM favorites WHERE type = 'campaigns' AND item_id = $1`,
		`DELETE FROM campaign_spec_versions WHERE campaign_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Scheduled-job scans ----

func (r *CampaignRepo) GetApprovedBefore(ctx context.Context, cutoff time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = $1 AND approved_at IS NOT NULL AND approved_at <= $2
	`, models.CampaignStatusApproved, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func (r *CampaignRepo) GetRunningPastDeadline(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = $1 AND deadline_date IS NOT NULL AND deadline_date < $2
	`, models.CampaignStatusRunning, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

// GetOverdue returns every active campaign whose deadline has passed,
// without a row limit: the overdue scan must see all of them, however
// old, or a penalty is silently never raised.
func (r *CampaignRepo) GetOverdue(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = ANY($1) AND deadline_date IS NOT NULL AND deadline_date < $2
		ORDER BY deadline_date
	`, []string{models.CampaignStatusRunning, models.CampaignStatusMatching}, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

// GetActiveWithDeadlineBetween backs the deadline-reminder job. Covers
// RUNNING and MATCHING: a campaign still matching near its deadline needs
// the nudge just as much.
func (r *CampaignRepo) GetActiveWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = ANY($1) AND deadline_date >= $2 AND deadline_date < $3
	`, []string{models.CampaignStatusRunning, models.CampaignStatusMatching}, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func (r *CampaignRepo) GetCompletedWithoutReport(ctx context.Context) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns c
		WHERE c.status = $1
		  AND NOT EXISTS (SELECT 1 FROM reports rp WHERE rp.campaign_id = c.id)
	`, models.CampaignStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

// ---- Spec versions ----

func (r *CampaignRepo) CreateSpecVersion(ctx context.Context, q Querier, v *models.CampaignSpecVersion) error {
	spec, err := json.Marshal(v.SpecJSON)
	if err != nil {
		return err
	}
	return q.QueryRow(ctx, `
		INSERT INTO campaign_spec_versions (campaign_id, version, proposal_markdown, spec_json, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, v.CampaignID, v.Version, v.ProposalMarkdown, spec, v.CreatedBy).Scan(&v.ID, &v.CreatedAt)
}

func (r *CampaignRepo) GetSpecVersion(ctx context.Context, id uuid.UUID) (*models.CampaignSpecVersion, error) {
	return scanSpecVersion(r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, version, proposal_markdown, spec_json, created_by, created_at
		FROM campaign_spec_versions WHERE id = $1
	`, id))
}

func (r *CampaignRepo) ListSpecVersions(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignSpecVersion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, version, proposal_markdown, spec_json, created_by, created_at
		FROM campaign_spec_versions WHERE campaign_id = $1 ORDER BY version DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []models.CampaignSpecVersion
	for rows.Next() {
		var v models.CampaignSpecVersion
		var spec []byte
		if err := rows.Scan(&v.ID, &v.CampaignID, &v.Version, &v.ProposalMarkdown, &spec, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(spec, &v.SpecJSON)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func scanSpecVersion(row pgx.Row) (*models.CampaignSpecVersion, error) {
	var v models.CampaignSpecVersion
	var spec []byte
	err := row.Scan(&v.ID, &v.CampaignID, &v.Version, &v.ProposalMarkdown, &spec, &v.CreatedBy, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(spec, &v.SpecJSON)
	return &v, nil
}

func (r *CampaignRepo) GetMaxSpecVersion(ctx context.Context, q Querier, campaignID uuid.UUID) (int, error) {
	var v *int
	err := q.QueryRow(ctx, `SELECT MAX(version) FROM campaign_spec_versions WHERE campaign_id = $1`, campaignID).Scan(&v)
	if err != nil || v == nil {
		return 0, err
	}
	return *v, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
