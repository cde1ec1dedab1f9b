package models

import (
	"time"

	"github.com/google/uuid"
)

// Event types written by the lifecycle engine and the scheduled jobs.
const (
	EventCampaignGenerated    = "campaign_generated"
	EventCampaignCreated      = "campaign_created"
	EventCampaignApproved     = "campaign_approved"
	EventCampaignCancelled    = "campaign_cancelled"
	EventCampaignDeleted      = "campaign_deleted"
	EventCampaignCompleted    = "campaign_completed"
	EventStatusChanged        = "status_changed"
	EventApplicationSubmitted = "application_submitted"
	EventApplicationRejected  = "application_rejected"
	EventInfluencerSelected   = "influencer_selected"
	EventSubmissionSubmitted  = "submission_submitted"
	EventSubmissionApproved   = "submission_approved"
	EventSubmissionNeedsFix   = "submission_needs_fix"
	EventDeadlineOverdue      = "deadline_overdue"
	EventDeadlineReminder     = "deadline_reminder"
)

// Actor used when a scheduled job acts without a human behind it.
const SystemActor = "system"

// Event is append-only; rows are never updated or deleted except as part of
// a campaign cascade delete.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	CampaignID *uuid.UUID     `json:"campaignId,omitempty"`
	ActorID    string         `json:"actorId"`
	ActorRole  string         `json:"actorRole"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
