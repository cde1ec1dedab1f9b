package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"github.com/influmatch/backend/internal/apperr"
)

const maxAttempts = 3

// Client generates campaign proposals from an advertiser's natural-language
// brief. Each failed attempt feeds its error back into the next prompt so
// the model can self-correct, up to maxAttempts total.
type Client struct {
	api   openai.Client
	model string
	log   *zap.Logger
}

func NewClient(apiKey, baseURL, model string, log *zap.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:   openai.NewClient(opts...),
		model: model,
		log:   log,
	}
}

// GenerateCampaignSpec turns a natural-language brief into a proposal plus
// structured spec. Returns an LLM_ERROR when every attempt fails.
func (c *Client) GenerateCampaignSpec(ctx context.Context, naturalLanguageInput string) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		prompt := userPrompt(naturalLanguageInput)
		if lastErr != nil {
			prompt = retryPrompt(lastErr.Error(), naturalLanguageInput)
		}

		resp, err := c.complete(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			c.log.Warn("campaign generation attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
	}

	return nil, apperr.LLM(fmt.Sprintf("failed to generate campaign spec after %d attempts: %s", maxAttempts, lastErr))
}

// GenerateReportNarrative produces a short performance summary for a
// completed campaign. Single attempt; callers treat failure as best-effort.
func (c *Client) GenerateReportNarrative(ctx context.Context, title string, metricLines []string) (string, error) {
	prompt := fmt.Sprintf(`다음은 완료된 캠페인 "%s"의 성과 지표입니다:

%s

위 지표를 바탕으로 광고주가 읽기 쉬운 3-5문장의 성과 요약을 한국어로 작성해주세요.`,
		title, strings.Join(metricLines, "\n"))

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1000),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (*Response, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(4000),
	})
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var resp Response
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := ValidateResponse(&resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
