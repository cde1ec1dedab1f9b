package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft      = "DRAFT"
	CampaignStatusGenerated  = "GENERATED"
	CampaignStatusReviewed   = "REVIEWED"
	CampaignStatusClarifying = "CLARIFYING"
	CampaignStatusApproved   = "APPROVED"
	CampaignStatusOpen       = "OPEN"
	CampaignStatusMatching   = "MATCHING"
	CampaignStatusRunning    = "RUNNING"
	CampaignStatusCompleted  = "COMPLETED"
	CampaignStatusFailed     = "FAILED"
	CampaignStatusCancelled  = "CANCELLED"
)

// Valid state transitions: from -> []to. Backward moves are never allowed;
// CANCELLED/FAILED are the only escape hatches before the terminal states.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:      {CampaignStatusGenerated, CampaignStatusOpen, CampaignStatusCancelled},
	CampaignStatusGenerated:  {CampaignStatusReviewed, CampaignStatusClarifying, CampaignStatusApproved, CampaignStatusOpen, CampaignStatusCancelled},
	CampaignStatusReviewed:   {CampaignStatusClarifying, CampaignStatusApproved, CampaignStatusOpen, CampaignStatusCancelled},
	CampaignStatusClarifying: {CampaignStatusApproved, CampaignStatusOpen, CampaignStatusCancelled},
	CampaignStatusApproved:   {CampaignStatusOpen, CampaignStatusCancelled},
	CampaignStatusOpen:       {CampaignStatusMatching, CampaignStatusRunning, CampaignStatusCancelled},
	CampaignStatusMatching:   {CampaignStatusRunning, CampaignStatusFailed, CampaignStatusCancelled},
	CampaignStatusRunning:    {CampaignStatusCompleted, CampaignStatusFailed, CampaignStatusCancelled},
	CampaignStatusCompleted:  {},
	CampaignStatusFailed:     {},
	CampaignStatusCancelled:  {},
}

func IsValidTransition(from, to string) bool {
	allowed, ok := ValidCampaignTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID                    uuid.UUID  `json:"id"`
	AdvertiserID          uuid.UUID  `json:"advertiserId"`
	Status                string     `json:"status"`
	Title                 string     `json:"title"`
	NaturalLanguageInput  *string    `json:"naturalLanguageInput,omitempty"`
	ApprovedAt            *time.Time `json:"approvedAt,omitempty"`
	OpenedAt              *time.Time `json:"openedAt,omitempty"`
	CompletedAt           *time.Time `json:"completedAt,omitempty"`
	DeadlineDate          *time.Time `json:"deadlineDate,omitempty"`
	EstimatedDuration     *int       `json:"estimatedDuration,omitempty"` // days
	CurrentSpecVersionID  *uuid.UUID `json:"currentSpecVersionId,omitempty"`
	SelectedInfluencerIDs []string   `json:"selectedInfluencerIds"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// IsSelected reports whether the influencer is in the campaign's selected list.
func (c *Campaign) IsSelected(influencerID uuid.UUID) bool {
	id := influencerID.String()
	for _, s := range c.SelectedInfluencerIDs {
		if s == id {
			return true
		}
	}
	return false
}

// CampaignSpecVersion is immutable once written; a new generation round
// produces the next version and repoints currentSpecVersionId.
type CampaignSpecVersion struct {
	ID               uuid.UUID    `json:"id"`
	CampaignID       uuid.UUID    `json:"campaignId"`
	Version          int          `json:"version"`
	ProposalMarkdown string       `json:"proposalMarkdown"`
	SpecJSON         CampaignSpec `json:"specJson"`
	CreatedBy        uuid.UUID    `json:"createdBy"`
	CreatedAt        time.Time    `json:"createdAt"`
}
