package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID           uuid.UUID `json:"id"`
	CampaignID   uuid.UUID `json:"campaignId"`
	AdvertiserID uuid.UUID `json:"advertiserId"`
	InfluencerID uuid.UUID `json:"influencerId"`
	Rating       int       `json:"rating"` // 1-5
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
