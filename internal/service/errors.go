package service

import (
	"errors"
	"fmt"
)

// 错误分类，handler 依此映射 HTTP 状态码
var (
	ErrRequiredField = errors.New("required field missing")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("resource not found")
	ErrUpstream      = errors.New("upstream provider failure")
	ErrConfiguration = errors.New("configuration missing")
)

// 支付链接
var (
	ErrLinkFieldsRequired = fmt.Errorf("%w: title, to, and amount are required", ErrRequiredField)
	ErrInvalidAccount     = fmt.Errorf("%w: to must match account format N.N.N", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidLinkID      = fmt.Errorf("%w: id is not url safe", ErrValidation)
	ErrLinkNotFound       = fmt.Errorf("%w: link", ErrNotFound)
	ErrSlugExhausted      = errors.New("no free slug candidate left")
)

// 支付记录
var (
	ErrPaymentFieldsRequired = fmt.Errorf("%w: linkId and amount are required", ErrRequiredField)
	ErrInvalidPaymentStatus  = fmt.Errorf("%w: unknown payment status", ErrValidation)
)

// 生成链接
var (
	ErrGenerateFieldsRequired = fmt.Errorf("%w: recipient and prompt are required", ErrRequiredField)
	ErrLLMKeyMissing          = fmt.Errorf("%w: llm api key", ErrConfiguration)
	ErrLLMEmpty               = fmt.Errorf("%w: empty llm response", ErrUpstream)
	ErrLLMInvalidJSON         = fmt.Errorf("%w: llm did not return valid json", ErrUpstream)
	ErrLLMInvalidAmount       = fmt.Errorf("%w: llm returned invalid amount", ErrUpstream)
)

// 转账模板
var (
	ErrTransferFieldsRequired = fmt.Errorf("%w: toAccountId and amountHbar are required", ErrRequiredField)
	ErrTransferInvalidAccount = fmt.Errorf("%w: invalid toAccountId", ErrValidation)
	ErrTransferInvalidAmount  = fmt.Errorf("%w: amountHbar must be a positive number", ErrValidation)
)

// 钱包支付
var (
	ErrSignedTransferRequired = fmt.Errorf("%w: linkId and signedTransactionBase64 are required", ErrRequiredField)
	ErrSignedTransferInvalid  = fmt.Errorf("%w: signed transaction is not a usable transfer", ErrValidation)
	ErrLedgerSubmitFailed     = fmt.Errorf("%w: ledger submission failed", ErrUpstream)
)
