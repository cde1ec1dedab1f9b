package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// PlatformStats is the admin dashboard snapshot.
type PlatformStats struct {
	UsersByRole       map[string]int `json:"usersByRole"`
	CampaignsByStatus map[string]int `json:"campaignsByStatus"`
	Applications      int            `json:"applications"`
	Submissions       int            `json:"submissions"`
	PendingPenalties  int            `json:"pendingPenalties"`
}

func (r *StatsRepo) Collect(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{
		UsersByRole:       map[string]int{},
		CampaignsByStatus: map[string]int{},
	}

	rows, err := r.pool.Query(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		stats.UsersByRole[role] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT status, count(*) FROM campaigns GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.CampaignsByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM applications`).Scan(&stats.Applications); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM submissions`).Scan(&stats.Submissions); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM penalties WHERE status = $1`,
		models.PenaltyStatusPending).Scan(&stats.PendingPenalties); err != nil {
		return nil, err
	}
	return stats, nil
}
