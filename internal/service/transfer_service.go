package service

import (
	"strconv"
	"strings"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/logger"
)

// TransferTemplate 未签名转账模板
type TransferTemplate struct {
	Type                      string  `json:"type"`
	ToAccountID               string  `json:"toAccountId"`
	AmountTinybar             string  `json:"amountTinybar"`
	Memo                      *string `json:"memo"`
	UnsignedTransactionBase64 string  `json:"unsignedTransactionBase64"`
}

// TransferInput 转账模板请求，AmountHbar 为原始文本
type TransferInput struct {
	ToAccountID string
	AmountHbar  string
	Memo        string
}

// TransferService 构建仅含收款方记账的转账模板
type TransferService struct {
	builder ledger.TransferBuilder
}

// NewTransferService 创建转账模板服务
func NewTransferService(builder ledger.TransferBuilder) *TransferService {
	if builder == nil {
		builder = ledger.SDKTransferBuilder{}
	}
	return &TransferService{builder: builder}
}

// BuildTemplate 校验账户与金额后构建模板；付款方、交易ID、冻结与签名由钱包完成
func (s *TransferService) BuildTemplate(input TransferInput) (*TransferTemplate, error) {
	to := strings.TrimSpace(input.ToAccountID)
	amountText := strings.TrimSpace(input.AmountHbar)
	if to == "" || amountText == "" {
		return nil, ErrTransferFieldsRequired
	}
	account, err := ledger.ParseAccountID(to)
	if err != nil {
		return nil, ErrTransferInvalidAccount
	}
	amount, ok := parsePositiveAmount(amountText)
	if !ok {
		return nil, ErrTransferInvalidAmount
	}
	tinybars := amount.Tinybars()
	if tinybars <= 0 {
		return nil, ErrTransferInvalidAmount
	}

	memo := optionalText(input.Memo, constants.TransferMemoMaxLength)
	raw, err := s.builder.BuildUnsignedTransfer(account, tinybars, derefString(memo))
	if err != nil {
		logger.Warnw("transfer_template_build_failed", "to", to, "error", err)
		return nil, err
	}

	return &TransferTemplate{
		Type:                      constants.TransferTemplateType,
		ToAccountID:               account.String(),
		AmountTinybar:             strconv.FormatInt(tinybars, 10),
		Memo:                      memo,
		UnsignedTransactionBase64: ledger.EncodeTransaction(raw),
	}, nil
}
