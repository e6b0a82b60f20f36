package public

import (
	handlershared "github.com/hbarlink/internal/http/handlers/shared"
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 记录支付请求
type CreatePaymentRequest struct {
	LinkID       string      `json:"linkId"`
	Amount       interface{} `json:"amount"`
	PayerAccount string      `json:"payerAccount"`
	Memo         string      `json:"memo"`
	TxID         string      `json:"txId"`
	Status       string      `json:"status"`
	Error        string      `json:"error"`
	Ledger       string      `json:"ledger"`
}

// CreatePayment 记录一次支付尝试，成功状态计入链接汇总
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	amount, ok := service.AmountText(req.Amount)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_amount", nil)
		return
	}

	payment, err := h.PaymentService.RecordAttempt(c.Request.Context(), service.RecordPaymentInput{
		LinkID:       req.LinkID,
		Amount:       amount,
		PayerAccount: req.PayerAccount,
		Memo:         req.Memo,
		TxID:         req.TxID,
		Status:       req.Status,
		Error:        req.Error,
		Ledger:       req.Ledger,
	})
	if err != nil {
		respondPaymentRecordError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("payment_recorded",
		"payment_id", payment.ID,
		"link_id", payment.LinkID,
		"status", payment.Status,
	)
	response.Created(c, gin.H{"payment": payment})
}
