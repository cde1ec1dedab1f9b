package dto

import "github.com/influmatch/backend/internal/models"

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	DisplayName string             `json:"displayName"`
	Profile     models.UserProfile `json:"profile"`
}

type GenerateCampaignRequest struct {
	NaturalLanguageInput string `json:"naturalLanguageInput"`
}

type CreateCampaignRequest struct {
	Title            string              `json:"title"`
	ProposalMarkdown string              `json:"proposalMarkdown"`
	SpecJSON         models.CampaignSpec `json:"specJson"`
}

type RegenerateCampaignRequest struct {
	NaturalLanguageInput string `json:"naturalLanguageInput,omitempty"`
}

type ApproveCampaignRequest struct {
	Action string `json:"action"` // approve | reject
	Reason string `json:"reason,omitempty"`
}

type ApplyRequest struct {
	Message *string `json:"message,omitempty"`
}

type ResolveApplicationRequest struct {
	Action string `json:"action"` // select | reject
}

type SubmitRequest struct {
	PostURL        string             `json:"postUrl"`
	ScreenshotURLs []string           `json:"screenshotUrls,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

type ReviewSubmissionRequest struct {
	Action   string  `json:"action"` // approve | needs_fix
	Feedback *string `json:"feedback,omitempty"`
}

type FavoriteRequest struct {
	Type   string `json:"type"` // campaigns | influencers
	ItemID string `json:"itemId"`
}

type CreateReviewRequest struct {
	InfluencerID string  `json:"influencerId"`
	Rating       int     `json:"rating"`
	Comment      *string `json:"comment,omitempty"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

type SurveyRequest struct {
	Role    string         `json:"role"`
	Answers map[string]any `json:"answers"`
}

type PortfolioItemRequest struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
}
