package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite types. Influencers favorite campaigns, advertisers favorite
// influencers.
const (
	FavoriteTypeCampaigns   = "campaigns"
	FavoriteTypeInfluencers = "influencers"
)

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Type      string    `json:"type"`
	ItemID    uuid.UUID `json:"itemId"`
	CreatedAt time.Time `json:"createdAt"`
}
