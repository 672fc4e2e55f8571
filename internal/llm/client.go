package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RichardoC/support-chat/internal/metrics"
	"github.com/RichardoC/support-chat/internal/models"
	"github.com/go-resty/resty/v2"
)

type ChatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type ChatCompletionChoice struct {
	Index   int                `json:"index"`
	Message models.ChatMessage `json:"message"`
}

type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration // zero leaves the transport default
}

// Client calls an OpenAI compatible /chat/completions endpoint.
type Client struct {
	httpClient *resty.Client
	model      string
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}
	return &Client{httpClient: httpClient, model: cfg.Model}
}

// Complete sends message as a single-turn conversation and returns the
// content of the first choice, or "" when the provider returned none.
func (c *Client) Complete(ctx context.Context, message string) (string, error) {
	req := ChatCompletionRequest{
		Model:    c.model,
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: message}},
	}

	start := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		metrics.ProviderRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	metrics.ProviderRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode())).Observe(time.Since(start).Seconds())

	if !resp.IsSuccess() {
		return "", &ProviderError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(resp.Body(), &completion); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
