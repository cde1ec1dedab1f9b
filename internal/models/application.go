package models

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses. APPLIED is the only entry state; SELECTED and
// REJECTED are terminal.
const (
	ApplicationStatusApplied  = "APPLIED"
	ApplicationStatusSelected = "SELECTED"
	ApplicationStatusRejected = "REJECTED"
)

type Application struct {
	ID           uuid.UUID  `json:"id"`
	CampaignID   uuid.UUID  `json:"campaignId"`
	InfluencerID uuid.UUID  `json:"influencerId"`
	Message      *string    `json:"message,omitempty"`
	Status       string     `json:"status"`
	SelectedAt   *time.Time `json:"selectedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ApplicationWithInfluencer joins the applicant's public profile to avoid
// N+1 user lookups when advertisers list applicants.
type ApplicationWithInfluencer struct {
	Application
	InfluencerName    *string `json:"influencerName,omitempty"`
	InfluencerEmail   *string `json:"influencerEmail,omitempty"`
	InfluencerProfile *UserProfile `json:"influencerProfile,omitempty"`
}
