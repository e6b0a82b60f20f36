package public

import (
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/service"

	"github.com/gin-gonic/gin"
)

// TransferRequest 未签名转账模板请求
type TransferRequest struct {
	ToAccountID string      `json:"toAccountId"`
	AmountHbar  interface{} `json:"amountHbar"`
	Memo        string      `json:"memo"`
}

// BuildTransfer 构建待钱包签名的转账交易
func (h *Handler) BuildTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	amount, ok := service.AmountText(req.AmountHbar)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.transfer_invalid_amount", nil)
		return
	}
	tpl, err := h.TransferService.BuildTemplate(service.TransferInput{
		ToAccountID: req.ToAccountID,
		AmountHbar:  amount,
		Memo:        req.Memo,
	})
	if err != nil {
		respondTransferError(c, err)
		return
	}
	response.Success(c, tpl)
}
