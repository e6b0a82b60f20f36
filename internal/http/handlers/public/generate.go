package public

import (
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/service"

	"github.com/gin-gonic/gin"
)

// GenerateLinkRequest 生成链接元数据请求
type GenerateLinkRequest struct {
	Recipient string `json:"recipient"`
	Prompt    string `json:"prompt"`
}

// GenerateLink 根据自然语言描述生成链接元数据
func (h *Handler) GenerateLink(c *gin.Context) {
	var req GenerateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	generated, err := h.GeneratorService.Generate(c.Request.Context(), service.GenerateInput{
		Recipient: req.Recipient,
		Prompt:    req.Prompt,
	})
	if err != nil {
		respondGenerateError(c, err)
		return
	}
	response.Success(c, generated)
}
