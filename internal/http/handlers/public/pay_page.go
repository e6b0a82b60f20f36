package public

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/i18n"
	"github.com/hbarlink/internal/service"

	"github.com/gin-gonic/gin"
)

var notFoundPageTemplate = template.Must(template.New("not-found").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family:system-ui,sans-serif;display:flex;min-height:100vh;align-items:center;justify-content:center;margin:0">
<main style="text-align:center">
<h1>{{.Title}}</h1>
<p>{{.Body}}</p>
</main>
</body>
</html>
`))

// PayPage 渲染支付链接页面
func (h *Handler) PayPage(c *gin.Context) {
	link, err := h.LinkService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFoundPage(c)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	page, err := h.PresentationService.RenderPage(link, h.WalletManager.Network())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.HTML(c, response.CodeOK, []byte(page))
}

func (h *Handler) renderNotFoundPage(c *gin.Context) {
	locale := i18n.ResolveLocale(c)
	var buf bytes.Buffer
	err := notFoundPageTemplate.Execute(&buf, map[string]string{
		"Title": i18n.T(locale, "page.not_found_title"),
		"Body":  i18n.T(locale, "page.not_found_body"),
	})
	if err != nil {
		respondError(c, response.CodeNotFound, "error.link_not_found", err)
		return
	}
	response.HTML(c, response.CodeNotFound, buf.Bytes())
}
