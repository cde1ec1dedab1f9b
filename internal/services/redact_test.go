package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactContactInfo(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "phone number",
			input:    "연락주세요 010-1234-5678 입니다",
			expected: "연락주세요 [연락처 정보 제거됨] 입니다",
		},
		{
			name:     "handle",
			input:    "인스타 @my_handle 로 DM 주세요",
			expected: "인스타 [연락처 정보 제거됨] 로 DM 주세요",
		},
		{
			name:     "both",
			input:    "@influencer1 010-9999-0000",
			expected: "[연락처 정보 제거됨] [연락처 정보 제거됨]",
		},
		{
			name:     "clean message untouched",
			input:    "캠페인에 꼭 참여하고 싶습니다. 경험이 많아요.",
			expected: "캠페인에 꼭 참여하고 싶습니다. 경험이 많아요.",
		},
		{
			name:     "short number left alone",
			input:    "예산은 50-1000 만원",
			expected: "예산은 50-1000 만원",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redactContactInfo(tt.input))
		})
	}
}
