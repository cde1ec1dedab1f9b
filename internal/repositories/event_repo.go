package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Create(ctx context.Context, q Querier, e *models.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	return q.QueryRow(ctx, `
		INSERT INTO events (campaign_id, actor_id, actor_role, type, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, e.CampaignID, e.ActorID, e.ActorRole, e.Type, payload).Scan(&e.ID, &e.CreatedAt)
}

func (r *EventRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, actor_id, actor_role, type, payload, created_at
		FROM events WHERE campaign_id = $1 ORDER BY created_at DESC LIMIT $2
	`, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var payload []byte
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.ActorID, &e.ActorRole, &e.Type, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(payload, &e.Payload)
		events = append(events, e)
	}
	return events, rows.Err()
}
