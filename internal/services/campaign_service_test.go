package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/influmatch/backend/internal/llm"
	"github.com/influmatch/backend/internal/models"
)

func TestTitleFromResponse(t *testing.T) {
	t.Run("prefers generated title", func(t *testing.T) {
		resp := &llm.Response{
			ProposalMarkdown: "# 마크다운 제목\n본문",
			SpecJSON: models.CampaignSpec{
				Title:     "신제품 런칭 인스타그램 캠페인",
				Objective: "신제품 런칭 인지도를 높이기 위한 캠페인입니다.",
			},
		}
		assert.Equal(t, "신제품 런칭 인스타그램 캠페인", titleFromResponse(resp))
	})

	t.Run("falls back to first heading", func(t *testing.T) {
		resp := &llm.Response{
			ProposalMarkdown: "서문\n\n# 뷰티 브랜드 협업 제안\n\n## 목표",
			SpecJSON: models.CampaignSpec{
				Objective: "뷰티 브랜드 신제품을 알리기 위한 캠페인입니다.",
			},
		}
		assert.Equal(t, "뷰티 브랜드 협업 제안", titleFromResponse(resp))
	})

	t.Run("falls back to truncated objective", func(t *testing.T) {
		objective := strings.Repeat("가", 150)
		resp := &llm.Response{
			ProposalMarkdown: "## 소제목만 있는 문서",
			SpecJSON:         models.CampaignSpec{Objective: objective},
		}
		got := titleFromResponse(resp)
		assert.Equal(t, 100, len([]rune(got)))
		assert.Equal(t, strings.Repeat("가", 100), got)
	})
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 20, normalizeLimit(0))
	assert.Equal(t, 20, normalizeLimit(-5))
	assert.Equal(t, 20, normalizeLimit(101))
	assert.Equal(t, 1, normalizeLimit(1))
	assert.Equal(t, 100, normalizeLimit(100))
}

func TestListCacheKeyIsStable(t *testing.T) {
	actorID := uuid.New()
	open := models.CampaignStatusOpen

	// same request twice must hit the same key, even though the status
	// filter arrives as a fresh pointer each time
	openAgain := models.CampaignStatusOpen
	assert.Equal(t,
		listCacheKey("influencer", actorID, &open, 20, ""),
		listCacheKey("influencer", actorID, &openAgain, 20, ""))

	assert.NotContains(t, listCacheKey("influencer", actorID, &open, 20, ""), "0x")
	assert.NotEqual(t,
		listCacheKey("influencer", actorID, &open, 20, ""),
		listCacheKey("influencer", actorID, nil, 20, ""))
	assert.NotEqual(t,
		listCacheKey("influencer", actorID, &open, 20, ""),
		listCacheKey("advertiser", actorID, &open, 20, ""))
}

func TestListCursorRoundtrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	c := &models.Campaign{ID: uuid.New(), CreatedAt: created}

	before, cursorID, err := parseListCursor(formatListCursor(c))
	require.NoError(t, err)
	require.NotNil(t, before)
	require.NotNil(t, cursorID)
	assert.True(t, before.Equal(created))
	assert.Equal(t, c.ID, *cursorID)
}

func TestParseListCursorRejectsGarbage(t *testing.T) {
	_, _, err := parseListCursor("not-a-timestamp")
	assert.Error(t, err)

	_, _, err = parseListCursor("2026-03-14T09:26:53Z,not-a-uuid")
	assert.Error(t, err)
}

func TestParseListCursorAcceptsTimestampOnly(t *testing.T) {
	before, cursorID, err := parseListCursor("2026-03-14T09:26:53Z")
	require.NoError(t, err)
	require.NotNil(t, before)
	assert.Nil(t, cursorID)
}
