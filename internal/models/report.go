package models

import (
	"time"

	"github.com/google/uuid"
)

// KPIResult is one aggregated metric across a campaign's approved submissions.
type KPIResult struct {
	Metric  string  `json:"metric"`
	Actual  float64 `json:"actual"`
	Average float64 `json:"average"`
}

type Report struct {
	ID          uuid.UUID   `json:"id"`
	CampaignID  uuid.UUID   `json:"campaignId"`
	Summary     string      `json:"summary"`
	KPIResults  []KPIResult `json:"kpiResults"`
	Narrative   string      `json:"narrative"`
	GeneratedBy string      `json:"generatedBy"`
	GeneratedAt time.Time   `json:"generatedAt"`
}
