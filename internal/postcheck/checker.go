package postcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Result describes what a probe of a submitted post URL found. A submission
// reviewer sees this next to the influencer's self-reported metrics.
type Result struct {
	URL         string    `json:"url"`
	Reachable   bool      `json:"reachable"`
	Platform    string    `json:"platform"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	ViewCount   *int      `json:"view_count,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Checker probes influencer post URLs: does the page exist, and what do its
// open-graph tags say. It never fails a review flow — unreachable pages come
// back as Reachable=false, not as errors.
type Checker struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewChecker(timeoutMS, maxRetries int, log *zap.Logger) *Checker {
	return &Checker{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

func (c *Checker) Check(ctx context.Context, postURL string) (*Result, error) {
	result := &Result{
		URL:       postURL,
		Platform:  platformFromURL(postURL),
		CheckedAt: time.Now(),
	}

	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, postURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			resp.Body.Close()
			return result, nil
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, postURL)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		c.log.Warn("post check unreachable", zap.String("url", postURL), zap.Error(lastErr))
		return result, nil
	}

	result.Reachable = true
	result.Title = metaContent(doc, "og:title")
	result.Description = metaContent(doc, "og:description")
	if result.Title == "" {
		result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	// Some platforms surface a view count in the og description ("조회수 1.2만회",
	// "5.6K views"). Best-effort only.
	if n := parseCount(result.Description); n > 0 {
		result.ViewCount = &n
	}

	return result, nil
}

func metaContent(doc *goquery.Document, property string) string {
	var content string
	doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("content"); ok {
			content = strings.TrimSpace(v)
			return false
		}
		return true
	})
	return content
}

func platformFromURL(postURL string) string {
	u, err := url.Parse(postURL)
	if err != nil {
		return "unknown"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case strings.Contains(host, "instagram.com"):
		return "Instagram"
	case strings.Contains(host, "youtube.com") || host == "youtu.be":
		return "YouTube"
	case strings.Contains(host, "tiktok.com"):
		return "TikTok"
	case strings.Contains(host, "blog.naver.com"):
		return "NaverBlog"
	case host == "x.com" || strings.Contains(host, "twitter.com"):
		return "X"
	default:
		return "unknown"
	}
}

var countRE = regexp.MustCompile(`[\d,.]+\s*[KkMm만천]?`)

func parseCount(text string) int {
	match := countRE.FindString(text)
	if match == "" {
		return 0
	}
	match = strings.ReplaceAll(match, " ", "")
	match = strings.ReplaceAll(match, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(match, "K"), strings.HasSuffix(match, "k"):
		multiplier = 1000
		match = match[:len(match)-1]
	case strings.HasSuffix(match, "M"), strings.HasSuffix(match, "m"):
		multiplier = 1000000
		match = match[:len(match)-1]
	case strings.HasSuffix(match, "만"):
		multiplier = 10000
		match = strings.TrimSuffix(match, "만")
	case strings.HasSuffix(match, "천"):
		multiplier = 1000
		match = strings.TrimSuffix(match, "천")
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return int(f * multiplier)
}
