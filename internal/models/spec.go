package models

// CampaignSpec is the machine-readable half of a generated proposal. The
// validate tags mirror the schema the generation client enforces before a
// spec is ever persisted.
type CampaignSpec struct {
	Title                   string          `json:"title,omitempty" validate:"omitempty,min=10,max=50"`
	Objective               string          `json:"objective" validate:"required,min=20,max=500"`
	TargetAudience          TargetAudience  `json:"target_audience" validate:"required"`
	ToneAndMood             []string        `json:"tone_and_mood" validate:"required,min=1"`
	RecommendedContentTypes []ContentType   `json:"recommended_content_types" validate:"required,min=1,dive"`
	Schedule                Schedule        `json:"schedule" validate:"required"`
	BudgetRange             BudgetRange     `json:"budget_range" validate:"required"`
	KPIs                    KPIGroup        `json:"kpis" validate:"required"`
	Constraints             SpecConstraints `json:"constraints"`
	RiskFlags               []RiskFlag      `json:"risk_flags,omitempty" validate:"omitempty,dive"`
	ClarificationQuestions  []Clarification `json:"clarification_questions" validate:"max=3,dive"`
}

type TargetAudience struct {
	Demographics string   `json:"demographics,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	Behaviors    []string `json:"behaviors,omitempty"`
}

type ContentType struct {
	Platform  string `json:"platform" validate:"required"`
	Format    string `json:"format" validate:"required"`
	Rationale string `json:"rationale,omitempty"`
}

type Schedule struct {
	EstimatedDurationDays int         `json:"estimated_duration_days" validate:"required,gt=0"`
	Milestones            []Milestone `json:"milestones,omitempty" validate:"omitempty,dive"`
}

type Milestone struct {
	Phase         string `json:"phase" validate:"required"`
	DaysFromStart int    `json:"days_from_start" validate:"gte=0"`
}

type BudgetRange struct {
	Min       float64 `json:"min" validate:"gte=0"`
	Max       float64 `json:"max" validate:"gte=0"`
	Currency  string  `json:"currency" validate:"required"`
	Rationale string  `json:"rationale" validate:"required"`
}

type KPI struct {
	Metric string  `json:"metric" validate:"required"`
	Value  float64 `json:"value" validate:"gte=0"`
	Source string  `json:"source,omitempty"`
}

type KPIGroup struct {
	Guaranteed []KPI `json:"guaranteed,omitempty" validate:"omitempty,dive"`
	Target     []KPI `json:"target,omitempty" validate:"omitempty,dive"`
	Reference  []KPI `json:"reference,omitempty" validate:"omitempty,dive"`
}

type SpecConstraints struct {
	MustHave []string `json:"must_have,omitempty"`
	MustNot  []string `json:"must_not,omitempty"`
}

type RiskFlag struct {
	Level       string `json:"level" validate:"required,oneof=low medium high"`
	Description string `json:"description" validate:"required"`
	Mitigation  string `json:"mitigation,omitempty"`
}

type Clarification struct {
	Question string   `json:"question" validate:"required,min=10,max=200"`
	Type     string   `json:"type" validate:"required,oneof=single_choice multiple_choice"`
	Options  []string `json:"options" validate:"required,min=2,max=4,dive,min=1,max=50"`
	Required bool     `json:"required"`
}
