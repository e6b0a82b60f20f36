package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/wallet"

	"github.com/shopspring/decimal"
)

// WalletPayInput 钱包支付请求
type WalletPayInput struct {
	LinkID                  string
	SignedTransactionBase64 string
}

// WalletPayResult 钱包支付结果
type WalletPayResult struct {
	Payment       *models.PaymentAttempt `json:"payment"`
	TransactionID string                 `json:"transactionId"`
	Status        string                 `json:"status"`
}

// WalletPaymentService 通过已配对会话提交签名转账并记录支付
type WalletPaymentService struct {
	sessions *wallet.Manager
	links    *LinkService
	payments *PaymentService
	gateway  ledger.Gateway
}

// NewWalletPaymentService 创建钱包支付服务
func NewWalletPaymentService(sessions *wallet.Manager, links *LinkService, payments *PaymentService, gateway ledger.Gateway) *WalletPaymentService {
	return &WalletPaymentService{
		sessions: sessions,
		links:    links,
		payments: payments,
		gateway:  gateway,
	}
}

// Pay 校验签名交易确实向链接收款账户入账后提交，并记录支付尝试
func (s *WalletPaymentService) Pay(ctx context.Context, sessionID string, input WalletPayInput) (*WalletPayResult, error) {
	linkID := strings.TrimSpace(input.LinkID)
	encoded := strings.TrimSpace(input.SignedTransactionBase64)
	if linkID == "" || encoded == "" {
		return nil, ErrSignedTransferRequired
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: ledger gateway", ErrConfiguration)
	}

	session, err := s.sessions.RequirePaired(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	link, err := s.links.Get(ctx, linkID)
	if err != nil {
		return nil, err
	}

	raw, err := ledger.DecodeTransaction(encoded)
	if err != nil {
		return nil, ErrSignedTransferInvalid
	}
	signed, err := s.gateway.InspectSigned(raw)
	if err != nil {
		logger.Debugw("wallet_signed_tx_inspect_failed", "link_id", linkID, "error", err)
		return nil, ErrSignedTransferInvalid
	}
	credit := signed.CreditTo(link.ToAccount)
	if credit <= 0 {
		return nil, ErrSignedTransferInvalid
	}
	amount := models.NewAmount(decimal.New(credit, -models.AmountScale))

	record := RecordPaymentInput{
		LinkID:       link.ID,
		Amount:       amount.String(),
		PayerAccount: session.AccountID,
		Memo:         signed.Memo,
		TxID:         signed.TransactionID,
		Ledger:       s.gateway.Network(),
	}

	result, submitErr := s.gateway.SubmitSigned(ctx, raw)
	switch {
	case submitErr != nil:
		record.Status = constants.PaymentStatusFailed
		record.Error = submitErr.Error()
	case result.Success:
		record.Status = constants.PaymentStatusSuccess
		record.TxID = result.TransactionID
	case result.Status == "" && result.Error == "":
		record.Status = constants.PaymentStatusSubmitted
		record.TxID = result.TransactionID
	default:
		record.Status = constants.PaymentStatusFailed
		record.TxID = result.TransactionID
		record.Error = strings.TrimSpace(result.Status + " " + result.Error)
	}

	payment, err := s.payments.RecordAttempt(ctx, record)
	if err != nil {
		return nil, err
	}
	if submitErr != nil {
		logger.Warnw("wallet_submit_failed", "link_id", link.ID, "payment_id", payment.ID, "error", submitErr)
		return nil, fmt.Errorf("%w: %v", ErrLedgerSubmitFailed, submitErr)
	}
	logger.Infow("wallet_payment_recorded",
		"link_id", link.ID,
		"payment_id", payment.ID,
		"status", payment.Status,
		"tx_id", record.TxID,
	)
	return &WalletPayResult{
		Payment:       payment,
		TransactionID: record.TxID,
		Status:        payment.Status,
	}, nil
}
