package models

import (
	"time"

	"github.com/google/uuid"
)

// Penalty reasons/types/statuses. Penalties carry no automatic consequence;
// they form a queue for human review.
const (
	PenaltyReasonDeadlineOverdue = "deadline_overdue"
	PenaltyTypeWarning           = "warning"
	PenaltyStatusPending         = "pending"
	PenaltyStatusResolved        = "resolved"
)

type Penalty struct {
	ID           uuid.UUID `json:"id"`
	CampaignID   uuid.UUID `json:"campaignId"`
	InfluencerID uuid.UUID `json:"influencerId"`
	Reason       string    `json:"reason"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	AppliedBy    string    `json:"appliedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
