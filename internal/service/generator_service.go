package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/llm"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/models"

	"github.com/spf13/cast"
)

const generatorSystemPrompt = `You create payment link metadata for HBAR payments on the Hedera network.
Reply with ONE strict JSON object and nothing else, using exactly these keys:
{
  "title": string,              // short card title
  "amount": number,             // positive HBAR amount
  "memo": string | null,        // optional transfer memo
  "description": string | null, // one short paragraph explaining the payment
  "componentHtml": string       // standalone full-page HTML snippet
}
componentHtml requirements:
- One <div> root that fills the viewport (height:100vh; width:100%; display:flex or equivalent). No <html>, <head> or <body>.
- Inline styles only. No <style>, <script>, iframes, external links or external assets.
- Dark theme: deep blue, purple, gray or black backgrounds with light text and strong contrast.
- Glassmorphism look: backdrop-filter:blur(), translucent panels, soft borders, gradients and shadows.
- A few fitting emojis are welcome.
- Show the title, the description and the HBAR amount with a clear visual hierarchy.
- You may refer to the recipient generically but never include identifying details.
- Purely informative: no buttons, forms or other interactive elements, and no fixed headers or footers.
- Responsive layout with safe font fallbacks such as Arial, sans-serif.
- No markdown and no backticks.
If the amount is unclear, choose a reasonable HBAR amount and say so in the description.`

// Completer 结构化补全接口
type Completer interface {
	Configured() bool
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// GeneratedLink 模型生成的链接元数据
type GeneratedLink struct {
	Title         string        `json:"title"`
	Amount        models.Amount `json:"amount"`
	Memo          *string       `json:"memo,omitempty"`
	Description   *string       `json:"description,omitempty"`
	ComponentHTML *string       `json:"componentHtml,omitempty"`
}

// GenerateInput 生成请求
type GenerateInput struct {
	Recipient string
	Prompt    string
}

// GeneratorService 链接元数据生成服务
type GeneratorService struct {
	completer Completer
}

// NewGeneratorService 创建生成服务
func NewGeneratorService(completer Completer) *GeneratorService {
	return &GeneratorService{completer: completer}
}

// Generate 调用模型并校验返回的元数据
func (s *GeneratorService) Generate(ctx context.Context, input GenerateInput) (*GeneratedLink, error) {
	recipient := strings.TrimSpace(input.Recipient)
	prompt := strings.TrimSpace(input.Prompt)
	if recipient == "" || prompt == "" {
		return nil, ErrGenerateFieldsRequired
	}
	if s.completer == nil || !s.completer.Configured() {
		return nil, ErrLLMKeyMissing
	}

	content, err := s.completer.CompleteJSON(ctx, generatorSystemPrompt, fmt.Sprintf("Recipient: %s\nInstruction: %s", recipient, prompt))
	if err != nil {
		return nil, translateCompletionError(err)
	}
	return parseGeneratedLink(content)
}

func translateCompletionError(err error) error {
	var providerErr *llm.ProviderError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return ErrLLMKeyMissing
	case errors.Is(err, llm.ErrEmptyResponse):
		return ErrLLMEmpty
	case errors.As(err, &providerErr):
		logger.Warnw("llm_provider_error", "status", providerErr.Status)
		return fmt.Errorf("%w: %w", ErrUpstream, providerErr)
	default:
		logger.Warnw("llm_request_failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

func parseGeneratedLink(content string) (*GeneratedLink, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrLLMEmpty
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(content)))
	decoder.UseNumber()
	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil || raw == nil {
		return nil, ErrLLMInvalidJSON
	}
	// 对象之后只允许空白
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrLLMInvalidJSON
	}

	title := strings.TrimSpace(cast.ToString(raw["title"]))
	if title == "" {
		title = constants.DefaultLinkTitle
	}
	amountText, ok := AmountText(raw["amount"])
	if !ok {
		return nil, ErrLLMInvalidAmount
	}
	amount, ok := parsePositiveAmount(amountText)
	if !ok {
		return nil, ErrLLMInvalidAmount
	}

	return &GeneratedLink{
		Title:         truncateRunes(title, constants.LinkTitleMaxLength),
		Amount:        amount,
		Memo:          optionalText(cast.ToString(raw["memo"]), constants.LinkMemoMaxLength),
		Description:   optionalText(cast.ToString(raw["description"]), constants.LinkDescriptionMaxLength),
		ComponentHTML: optionalText(cast.ToString(raw["componentHtml"]), 0),
	}, nil
}
