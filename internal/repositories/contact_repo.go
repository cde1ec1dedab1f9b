package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/influmatch/backend/internal/models"
)

type ContactRepo struct {
	pool *pgxpool.Pool
}

func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{pool: pool}
}

func (r *ContactRepo) Create(ctx context.Context, c *models.Contact) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, phone, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.Name, c.Email, c.Phone, c.Message, c.Status).Scan(&c.ID, &c.CreatedAt)
}

func (r *ContactRepo) List(ctx context.Context, status *string, limit, offset int) ([]models.Contact, error) {
	query := `SELECT id, name, email, phone, message, status, created_at FROM contacts`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE contacts SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type SurveyRepo struct {
	pool *pgxpool.Pool
}

func NewSurveyRepo(pool *pgxpool.Pool) *SurveyRepo {
	return &SurveyRepo{pool: pool}
}

func (r *SurveyRepo) Create(ctx context.Context, s *models.Survey) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO surveys (user_id, role, answers)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, s.UserID, s.Role, answers).Scan(&s.ID, &s.CreatedAt)
}
