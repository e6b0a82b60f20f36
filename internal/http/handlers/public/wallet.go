package public

import (
	handlershared "github.com/hbarlink/internal/http/handlers/shared"
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/service"

	"github.com/gin-gonic/gin"
)

// PairWalletRequest 钱包配对回填请求
type PairWalletRequest struct {
	AccountID string `json:"accountId"`
}

// WalletPayRequest 钱包支付请求
type WalletPayRequest struct {
	LinkID                  string `json:"linkId"`
	SignedTransactionBase64 string `json:"signedTransactionBase64"`
}

// StartWalletSession 创建配对中的钱包会话并返回令牌
func (h *Handler) StartWalletSession(c *gin.Context) {
	session, token, err := h.WalletManager.Start(c.Request.Context())
	if err != nil {
		respondWalletSessionError(c, err)
		return
	}
	response.Created(c, gin.H{
		"session": session,
		"token":   token,
	})
}

// GetWalletSession 获取当前会话
func (h *Handler) GetWalletSession(c *gin.Context) {
	sessionID, ok := getWalletSessionID(c)
	if !ok {
		return
	}
	session, err := h.WalletManager.Current(c.Request.Context(), sessionID)
	if err != nil {
		respondWalletSessionError(c, err)
		return
	}
	response.Success(c, gin.H{"session": session})
}

// PairWalletSession 钱包扩展完成配对后回填账户
func (h *Handler) PairWalletSession(c *gin.Context) {
	sessionID, ok := getWalletSessionID(c)
	if !ok {
		return
	}
	var req PairWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	session, err := h.WalletManager.Pair(c.Request.Context(), sessionID, req.AccountID)
	if err != nil {
		respondWalletSessionError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("wallet_paired", "session_id", session.ID, "account_id", session.AccountID)
	response.Success(c, gin.H{"session": session})
}

// PayWithWallet 提交已签名转账并记录支付
func (h *Handler) PayWithWallet(c *gin.Context) {
	sessionID, ok := getWalletSessionID(c)
	if !ok {
		return
	}
	var req WalletPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.WalletPaymentService.Pay(c.Request.Context(), sessionID, service.WalletPayInput{
		LinkID:                  req.LinkID,
		SignedTransactionBase64: req.SignedTransactionBase64,
	})
	if err != nil {
		respondWalletPayError(c, err)
		return
	}
	response.Created(c, result)
}

// DisconnectWalletSession 断开会话，重复断开同样成功
func (h *Handler) DisconnectWalletSession(c *gin.Context) {
	sessionID, ok := getWalletSessionID(c)
	if !ok {
		return
	}
	if err := h.WalletManager.Disconnect(c.Request.Context(), sessionID); err != nil {
		respondWalletSessionError(c, err)
		return
	}
	response.OK(c)
}
