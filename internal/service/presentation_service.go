package service

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/models"
)

var (
	scriptBlockPattern   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	scriptTagPattern     = regexp.MustCompile(`(?i)</?script[^>]*>`)
	handlerDoubleQuoted  = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*"[^"]*"`)
	handlerSingleQuoted  = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*'[^']*'`)
	handlerUnquoted      = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*[^\s"'>]+`)
	javascriptURLPattern = regexp.MustCompile(`(?i)\b(href|src|action|formaction|xlink:href)\s*=\s*(["']?)\s*javascript:`)
)

var fallbackTemplate = template.Must(template.New("fallback").Parse(
	`<div style="display:flex;align-items:center;justify-content:center;min-height:100vh;background:linear-gradient(135deg,#0ea5e9,#22c55e);color:white;">` +
		`<div style="background:rgba(255,255,255,0.1);backdrop-filter:blur(6px);padding:24px 28px;border-radius:16px;max-width:560px;width:92%;">` +
		`<div style="font-size:24px;font-weight:700;margin-bottom:6px;">{{.Title}}</div>` +
		`<div style="opacity:0.9">{{.Amount}} HBAR → {{.To}}</div>` +
		`{{if .Memo}}<div style="opacity:0.8;margin-top:6px;">Memo: {{.Memo}}</div>{{end}}` +
		`</div></div>`,
))

// PresentationService 支付链接展示
type PresentationService struct {
	stripJavaScriptURLs bool
}

// NewPresentationService 创建展示服务
func NewPresentationService(stripJavaScriptURLs bool) *PresentationService {
	return &PresentationService{stripJavaScriptURLs: stripJavaScriptURLs}
}

// Sanitize 去除脚本块与内联事件属性，不是通用 HTML 过滤器
func (s *PresentationService) Sanitize(markup string) string {
	out := scriptBlockPattern.ReplaceAllString(markup, "")
	out = scriptTagPattern.ReplaceAllString(out, "")
	out = handlerDoubleQuoted.ReplaceAllString(out, "")
	out = handlerSingleQuoted.ReplaceAllString(out, "")
	out = handlerUnquoted.ReplaceAllString(out, "")
	if s.stripJavaScriptURLs {
		out = javascriptURLPattern.ReplaceAllString(out, "${1}=${2}#")
	}
	return out
}

// Resolve 有生成组件时使用净化后的组件，否则渲染固定模板
func (s *PresentationService) Resolve(link *models.PaymentLink) (string, error) {
	if link == nil {
		return "", ErrLinkNotFound
	}
	if component := strings.TrimSpace(derefString(link.ComponentCode)); component != "" {
		return s.Sanitize(component), nil
	}
	return renderFallback(link)
}

func renderFallback(link *models.PaymentLink) (string, error) {
	title := strings.TrimSpace(link.Title)
	if title == "" {
		title = constants.DefaultLinkTitle
	}
	var buf bytes.Buffer
	err := fallbackTemplate.Execute(&buf, struct {
		Title  string
		Amount string
		To     string
		Memo   string
	}{
		Title:  title,
		Amount: link.Amount.String(),
		To:     link.ToAccount,
		Memo:   derefString(link.Memo),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
