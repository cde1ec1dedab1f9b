package postcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1.2K", 1200},
		{"1.5M", 1500000},
		{"123", 123},
		{"12,345", 12345},
		{"5.6K views", 5600},
		{"조회수 1.2만회", 12000},
		{"조회수 3천회", 3000},
		{"42k", 42000},
		{"0", 0},
		{"", 0},
		{"no number", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseCount(tt.input); got != tt.expected {
				t.Errorf("parseCount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPlatformFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.instagram.com/p/abc123/", "Instagram"},
		{"https://youtu.be/dQw4w9WgXcQ", "YouTube"},
		{"https://www.youtube.com/watch?v=abc", "YouTube"},
		{"https://www.tiktok.com/@user/video/1", "TikTok"},
		{"https://blog.naver.com/user/1234", "NaverBlog"},
		{"https://x.com/user/status/1", "X"},
		{"https://example.com/post/1", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, platformFromURL(tt.url))
		})
	}
}

func TestCheckReachablePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="신제품 리뷰 영상" />
			<meta property="og:description" content="조회수 1.2만회" />
			<title>fallback title</title>
		</head><body></body></html>`))
	}))
	defer srv.Close()

	c := NewChecker(2000, 0, zaptest.NewLogger(t))
	result, err := c.Check(context.Background(), srv.URL+"/post/1")
	require.NoError(t, err)

	assert.True(t, result.Reachable)
	assert.Equal(t, "신제품 리뷰 영상", result.Title)
	require.NotNil(t, result.ViewCount)
	assert.Equal(t, 12000, *result.ViewCount)
}

func TestCheckDeletedPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewChecker(2000, 0, zaptest.NewLogger(t))
	result, err := c.Check(context.Background(), srv.URL+"/post/gone")
	require.NoError(t, err)
	assert.False(t, result.Reachable)
}
