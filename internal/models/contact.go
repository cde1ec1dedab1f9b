package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContactStatusNew     = "new"
	ContactStatusHandled = "handled"
)

// Contact is a pre-signup inquiry submitted from the public site.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Survey captures trial-interest answers; the respondent may be anonymous.
type Survey struct {
	ID        uuid.UUID      `json:"id"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Role      string         `json:"role"`
	Answers   map[string]any `json:"answers"`
	CreatedAt time.Time      `json:"createdAt"`
}
