package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrMissingAPIKey 未配置密钥
	ErrMissingAPIKey = errors.New("llm api key missing")
	// ErrEmptyResponse 模型未返回内容
	ErrEmptyResponse = errors.New("empty llm response")
)

// ProviderError 上游返回非 2xx
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider returned %d: %s", e.Status, e.Body)
}

// Config 客户端配置
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	RetryCount  int
}

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client OpenAI 兼容的 chat completions 客户端
type Client struct {
	http *resty.Client
	cfg  Config
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o"
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)
	return &Client{http: httpClient, cfg: cfg}
}

// Configured 是否配置了密钥
func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.cfg.APIKey) != ""
}

// Model 当前模型
func (c *Client) Model() string {
	return c.cfg.Model
}

// CompleteJSON 以 json_object 模式请求补全并返回原始内容
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    c.cfg.Temperature,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", &ProviderError{Status: resp.StatusCode(), Body: strings.TrimSpace(string(resp.Body()))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
