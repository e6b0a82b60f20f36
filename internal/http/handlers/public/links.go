package public

import (
	"strings"

	handlershared "github.com/hbarlink/internal/http/handlers/shared"
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// CreateLinkRequest 创建链接请求，amount 可为数字或字符串
type CreateLinkRequest struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	To            string      `json:"to"`
	Amount        interface{} `json:"amount"`
	Memo          string      `json:"memo"`
	Description   string      `json:"description"`
	ComponentCode string      `json:"componentCode"`
}

// linkPatchFields PATCH 请求字段名到更新输入的映射
var linkPatchFields = map[string]func(*service.UpdateLinkInput, *string){
	"title":         func(in *service.UpdateLinkInput, v *string) { in.Title = v },
	"to":            func(in *service.UpdateLinkInput, v *string) { in.To = v },
	"amount":        func(in *service.UpdateLinkInput, v *string) { in.Amount = v },
	"memo":          func(in *service.UpdateLinkInput, v *string) { in.Memo = v },
	"description":   func(in *service.UpdateLinkInput, v *string) { in.Description = v },
	"componentCode": func(in *service.UpdateLinkInput, v *string) { in.ComponentCode = v },
}

// ListLinks 获取链接列表，按创建时间倒序
func (h *Handler) ListLinks(c *gin.Context) {
	page, pageSize, paged := handlershared.OptionalPagination(c)
	links, total, err := h.LinkService.List(c.Query("q"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.link_list_failed", err)
		return
	}
	if !paged {
		response.Success(c, gin.H{"links": links})
		return
	}
	response.Success(c, gin.H{
		"links":      links,
		"pagination": response.BuildPagination(page, pageSize, total),
	})
}

// CreateLink 创建链接；携带 id 时覆盖同名链接的内容
func (h *Handler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	amount, ok := service.AmountText(req.Amount)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_amount", nil)
		return
	}

	link, err := h.LinkService.CreateOrReplace(c.Request.Context(), service.CreateLinkInput{
		ID:            req.ID,
		Title:         req.Title,
		To:            req.To,
		Amount:        amount,
		Memo:          req.Memo,
		Description:   req.Description,
		ComponentCode: req.ComponentCode,
	})
	if err != nil {
		respondLinkWriteError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("link_saved", "link_id", link.ID)
	response.Created(c, gin.H{"link": link})
}

// GetLink 获取单个链接
func (h *Handler) GetLink(c *gin.Context) {
	link, ok := h.loadLink(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"link": link})
}

// UpdateLink 部分更新，仅请求体中出现的字段会被修改
func (h *Handler) UpdateLink(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var input service.UpdateLinkInput
	for field, value := range body {
		apply, known := linkPatchFields[field]
		if !known {
			continue
		}
		text, ok := patchText(field, value)
		if !ok {
			if field == "amount" {
				respondError(c, response.CodeBadRequest, "error.invalid_amount", nil)
				return
			}
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		apply(&input, &text)
	}

	link, err := h.LinkService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondLinkWriteError(c, err)
		return
	}
	response.Success(c, gin.H{"link": link})
}

// DeleteLink 删除链接，不存在时同样返回成功
func (h *Handler) DeleteLink(c *gin.Context) {
	if err := h.LinkService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, response.CodeInternal, "error.link_delete_failed", err)
		return
	}
	response.OK(c)
}

// RenderLink 返回链接的展示 HTML
func (h *Handler) RenderLink(c *gin.Context) {
	link, ok := h.loadLink(c)
	if !ok {
		return
	}
	html, err := h.PresentationService.Resolve(link)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"html": html})
}

// ListLinkPayments 获取链接的支付记录
func (h *Handler) ListLinkPayments(c *gin.Context) {
	link, ok := h.loadLink(c)
	if !ok {
		return
	}
	page, pageSize, paged := handlershared.OptionalPagination(c)
	payments, total, err := h.PaymentService.ListAttempts(link.ID, c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if !paged {
		response.Success(c, gin.H{"payments": payments})
		return
	}
	response.Success(c, gin.H{
		"payments":   payments,
		"pagination": response.BuildPagination(page, pageSize, total),
	})
}

func (h *Handler) loadLink(c *gin.Context) (*models.PaymentLink, bool) {
	link, err := h.LinkService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, linkWriteErrorRules, response.CodeInternal, "error.internal")
		return nil, false
	}
	return link, true
}

// patchText 将 PATCH 字段值转为文本，null 视为清空
func patchText(field string, value interface{}) (string, bool) {
	if field == "amount" {
		return service.AmountText(value)
	}
	if value == nil {
		return "", true
	}
	text, err := cast.ToStringE(value)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}
