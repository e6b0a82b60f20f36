package ledger

import (
	"encoding/base64"
	"errors"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// ErrNonPositiveTinybar 转账金额换算后不为正
var ErrNonPositiveTinybar = errors.New("transfer amount must be at least one tinybar")

// TransferBuilder 构建未签名转账模板
type TransferBuilder interface {
	BuildUnsignedTransfer(to hedera.AccountID, tinybars int64, memo string) ([]byte, error)
}

// SDKTransferBuilder 基于 SDK 的实现
type SDKTransferBuilder struct{}

// BuildUnsignedTransfer 仅包含收款方一条记账，不冻结、不签名；付款方、交易ID与签名由钱包补全
func (SDKTransferBuilder) BuildUnsignedTransfer(to hedera.AccountID, tinybars int64, memo string) ([]byte, error) {
	if tinybars <= 0 {
		return nil, ErrNonPositiveTinybar
	}
	tx := hedera.NewTransferTransaction().
		AddHbarTransfer(to, hedera.HbarFromTinybar(tinybars))
	if memo != "" {
		tx.SetTransactionMemo(memo)
	}
	return tx.ToBytes()
}

// EncodeTransaction 以标准 base64 编码交易字节
func EncodeTransaction(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeTransaction 解码 base64 交易字节
func DecodeTransaction(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty transaction bytes")
	}
	return raw, nil
}
