package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission statuses
const (
	SubmissionStatusSubmitted = "SUBMITTED"
	SubmissionStatusNeedsFix  = "NEEDS_FIX"
	SubmissionStatusApproved  = "APPROVED"
)

type Submission struct {
	ID             uuid.UUID          `json:"id"`
	CampaignID     uuid.UUID          `json:"campaignId"`
	InfluencerID   uuid.UUID          `json:"influencerId"`
	ApplicationID  uuid.UUID          `json:"applicationId"`
	PostURL        string             `json:"postUrl"`
	ScreenshotURLs []string           `json:"screenshotUrls"`
	Metrics        map[string]float64 `json:"metrics"`
	Status         string             `json:"status"`
	Feedback       *string            `json:"feedback,omitempty"`
	SubmittedAt    time.Time          `json:"submittedAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	ApprovedAt     *time.Time         `json:"approvedAt,omitempty"`
}
