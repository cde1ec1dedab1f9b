package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/influmatch/backend/internal/apperr"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4-turbo-preview",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestGenerateCampaignSpec(t *testing.T) {
	valid, err := json.Marshal(validResponse())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, string(valid)))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "gpt-4-turbo-preview", zaptest.NewLogger(t))
	resp, err := client.GenerateCampaignSpec(context.Background(), "새 뷰티 제품 홍보하고 싶어요")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ProposalMarkdown)
	assert.Equal(t, "신제품 뷰티 캠페인 제안", resp.SpecJSON.Title)
}

func TestGenerateCampaignSpecRetriesOnInvalidPayload(t *testing.T) {
	valid, err := json.Marshal(validResponse())
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			// schema-invalid: spec_json missing
			w.Write(completionBody(t, `{"proposalMarkdown":"short"}`))
			return
		}
		w.Write(completionBody(t, string(valid)))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "gpt-4-turbo-preview", zaptest.NewLogger(t))
	resp, err := client.GenerateCampaignSpec(context.Background(), "카페 신메뉴 홍보")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.NotEmpty(t, resp.SpecJSON.Objective)
}

func TestGenerateCampaignSpecExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, "not json at all"))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, "gpt-4-turbo-preview", zaptest.NewLogger(t))
	_, err := client.GenerateCampaignSpec(context.Background(), "아무 캠페인")
	require.Error(t, err)
	assert.Equal(t, int32(maxAttempts), calls.Load())
	assert.Equal(t, apperr.CodeLLMError, apperr.From(err).Code)
}
