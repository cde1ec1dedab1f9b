package models

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioItem is a past-work link an influencer showcases on their profile.
type PortfolioItem struct {
	ID           uuid.UUID `json:"id"`
	InfluencerID uuid.UUID `json:"influencerId"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
