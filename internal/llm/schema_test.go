package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/influmatch/backend/internal/models"
)

func validResponse() *Response {
	return &Response{
		ProposalMarkdown: "# 캠페인 제안서\n\n" + strings.Repeat("상세한 캠페인 제안 내용입니다. ", 40),
		SpecJSON: models.CampaignSpec{
			Title:     "신제품 뷰티 캠페인 제안",
			Objective: "20-30대 여성 타겟으로 신제품 인지도를 높이고 초기 구매 전환을 만들어냅니다.",
			TargetAudience: models.TargetAudience{
				Demographics: "20-30대 여성",
				Interests:    []string{"뷰티", "패션"},
			},
			ToneAndMood: []string{"밝은", "친근한"},
			RecommendedContentTypes: []models.ContentType{
				{Platform: "Instagram", Format: "릴스", Rationale: "숏폼 선호 타겟"},
			},
			Schedule: models.Schedule{
				EstimatedDurationDays: 30,
				Milestones: []models.Milestone{
					{Phase: "인플루언서 섭외", DaysFromStart: 0},
					{Phase: "콘텐츠 업로드", DaysFromStart: 14},
				},
			},
			BudgetRange: models.BudgetRange{
				Min: 1000000, Max: 3000000, Currency: "KRW",
				Rationale: "인플루언서 3-5명 협업 기준",
			},
			KPIs: models.KPIGroup{
				Guaranteed: []models.KPI{{Metric: "총 조회수", Value: 50000}},
				Target:     []models.KPI{{Metric: "댓글 수", Value: 500}},
			},
			Constraints: models.SpecConstraints{
				MustHave: []string{"브랜드 로고 노출"},
				MustNot:  []string{"경쟁사 언급"},
			},
			RiskFlags: []models.RiskFlag{
				{Level: "low", Description: "시즌 영향으로 참여율 변동 가능", Mitigation: "일정 조정"},
			},
			ClarificationQuestions: []models.Clarification{
				{
					Question: "주요 홍보하고 싶은 제품의 특장점은 무엇인가요?",
					Type:     "single_choice",
					Options:  []string{"가성비", "품질", "디자인"},
					Required: true,
				},
			},
		},
	}
}

func TestValidateResponseOK(t *testing.T) {
	require.NoError(t, ValidateResponse(validResponse()))
}

func TestValidateResponseShortProposal(t *testing.T) {
	resp := validResponse()
	resp.ProposalMarkdown = "너무 짧은 제안서"

	err := ValidateResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProposalMarkdown")
}

func TestValidateResponseMissingObjective(t *testing.T) {
	resp := validResponse()
	resp.SpecJSON.Objective = ""

	err := ValidateResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Objective")
}

func TestValidateResponseTooManyClarifications(t *testing.T) {
	resp := validResponse()
	q := resp.SpecJSON.ClarificationQuestions[0]
	resp.SpecJSON.ClarificationQuestions = []models.Clarification{q, q, q, q}

	err := ValidateResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ClarificationQuestions")
}

func TestValidateResponseBadClarificationOptions(t *testing.T) {
	resp := validResponse()
	resp.SpecJSON.ClarificationQuestions[0].Options = []string{"하나만"}

	err := ValidateResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Options")
}

func TestValidateResponseJoinsMultipleIssues(t *testing.T) {
	resp := validResponse()
	resp.SpecJSON.Objective = "짧음"
	resp.SpecJSON.ToneAndMood = nil

	err := ValidateResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Objective")
	assert.Contains(t, err.Error(), "ToneAndMood")
}
