package models

import "testing"

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// AI-assisted path
		{CampaignStatusGenerated, CampaignStatusReviewed, true},
		{CampaignStatusGenerated, CampaignStatusClarifying, true},
		{CampaignStatusGenerated, CampaignStatusApproved, true},
		{CampaignStatusGenerated, CampaignStatusOpen, true},
		{CampaignStatusReviewed, CampaignStatusApproved, true},
		{CampaignStatusClarifying, CampaignStatusApproved, true},
		{CampaignStatusApproved, CampaignStatusOpen, true},

		// Direct path
		{CampaignStatusDraft, CampaignStatusOpen, true},

		// Matching and running
		{CampaignStatusOpen, CampaignStatusMatching, true},
		{CampaignStatusOpen, CampaignStatusRunning, true},
		{CampaignStatusMatching, CampaignStatusRunning, true},
		{CampaignStatusRunning, CampaignStatusCompleted, true},
		{CampaignStatusRunning, CampaignStatusFailed, true},

		// Cancellation paths
		{CampaignStatusDraft, CampaignStatusCancelled, true},
		{CampaignStatusGenerated, CampaignStatusCancelled, true},
		{CampaignStatusApproved, CampaignStatusCancelled, true},
		{CampaignStatusOpen, CampaignStatusCancelled, true},
		{CampaignStatusMatching, CampaignStatusCancelled, true},
		{CampaignStatusRunning, CampaignStatusCancelled, true},

		// No backward transitions
		{CampaignStatusOpen, CampaignStatusApproved, false},
		{CampaignStatusRunning, CampaignStatusOpen, false},
		{CampaignStatusRunning, CampaignStatusMatching, false},
		{CampaignStatusApproved, CampaignStatusGenerated, false},
		{CampaignStatusCompleted, CampaignStatusRunning, false},

		// No skipping forward
		{CampaignStatusGenerated, CampaignStatusRunning, false},
		{CampaignStatusApproved, CampaignStatusCompleted, false},
		{CampaignStatusDraft, CampaignStatusCompleted, false},

		// Terminal states stay terminal
		{CampaignStatusCompleted, CampaignStatusCancelled, false},
		{CampaignStatusCancelled, CampaignStatusOpen, false},
		{CampaignStatusFailed, CampaignStatusRunning, false},

		// Unknown statuses
		{"nonexistent", CampaignStatusOpen, false},
		{CampaignStatusOpen, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		CampaignStatusDraft, CampaignStatusGenerated, CampaignStatusReviewed,
		CampaignStatusClarifying, CampaignStatusApproved, CampaignStatusOpen,
		CampaignStatusMatching, CampaignStatusRunning,
		CampaignStatusCompleted, CampaignStatusFailed, CampaignStatusCancelled,
	}

	for _, status := range allStatuses {
		if _, ok := ValidCampaignTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidCampaignTransitions map", status)
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	terminal := []string{CampaignStatusCompleted, CampaignStatusFailed, CampaignStatusCancelled}
	for _, status := range terminal {
		transitions := ValidCampaignTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
}
