package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

var (
	// ErrNotTransfer 字节不是转账交易
	ErrNotTransfer = errors.New("transaction is not a transfer")
	// ErrReceiptPending 回执尚未可用
	ErrReceiptPending = errors.New("transaction receipt pending")
)

// SignedTransfer 已签名转账的解析结果
type SignedTransfer struct {
	TransactionID string
	Memo          string
	Credits       map[string]int64 // 账户 -> tinybar（仅正向记账）
}

// CreditTo 返回指定账户的入账 tinybar
func (t *SignedTransfer) CreditTo(account string) int64 {
	if t == nil {
		return 0
	}
	return t.Credits[account]
}

// SubmitResult 提交结果
type SubmitResult struct {
	TransactionID string
	Status        string
	Success       bool
	Error         string
}

// ReceiptResult 回执查询结果
type ReceiptResult struct {
	Status  string
	Success bool
}

// Gateway 账本交互接口
type Gateway interface {
	Network() string
	InspectSigned(raw []byte) (*SignedTransfer, error)
	SubmitSigned(ctx context.Context, raw []byte) (*SubmitResult, error)
	Receipt(ctx context.Context, transactionID string) (*ReceiptResult, error)
}

// SDKGateway 基于 SDK 客户端的实现
type SDKGateway struct {
	network string
	client  *hedera.Client
	timeout time.Duration
}

// NewSDKGateway 创建账本网关
func NewSDKGateway(network string, timeout time.Duration) (*SDKGateway, error) {
	name, err := NormalizeNetwork(network)
	if err != nil {
		return nil, err
	}
	client, err := NewClient(name)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SDKGateway{network: name, client: client, timeout: timeout}, nil
}

// Network 当前网络
func (g *SDKGateway) Network() string {
	return g.network
}

// Close 释放 SDK 连接
func (g *SDKGateway) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

func parseTransfer(raw []byte) (*hedera.TransferTransaction, error) {
	parsed, err := hedera.TransactionFromBytes(raw)
	if err != nil {
		return nil, err
	}
	switch tx := parsed.(type) {
	case *hedera.TransferTransaction:
		return tx, nil
	case hedera.TransferTransaction:
		return &tx, nil
	default:
		return nil, ErrNotTransfer
	}
}

// InspectSigned 解析已签名转账
func (g *SDKGateway) InspectSigned(raw []byte) (*SignedTransfer, error) {
	tx, err := parseTransfer(raw)
	if err != nil {
		return nil, err
	}
	result := &SignedTransfer{
		TransactionID: tx.GetTransactionID().String(),
		Memo:          tx.GetTransactionMemo(),
		Credits:       make(map[string]int64),
	}
	for account, amount := range tx.GetHbarTransfers() {
		if tinybars := amount.AsTinybar(); tinybars > 0 {
			result.Credits[account.String()] += tinybars
		}
	}
	return result, nil
}

// SubmitSigned 提交已签名交易并等待回执
func (g *SDKGateway) SubmitSigned(ctx context.Context, raw []byte) (*SubmitResult, error) {
	tx, err := parseTransfer(raw)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type outcome struct {
		result *SubmitResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := tx.Execute(g.client)
		if err != nil {
			done <- outcome{err: fmt.Errorf("execute transaction: %w", err)}
			return
		}
		result := &SubmitResult{TransactionID: resp.TransactionID.String()}
		receipt, err := resp.GetReceipt(g.client)
		result.Status = receipt.Status.String()
		if err != nil {
			result.Error = err.Error()
		}
		result.Success = err == nil && receipt.Status == hedera.StatusSuccess
		done <- outcome{result: result}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.result, out.err
	}
}

// Receipt 查询交易回执
func (g *SDKGateway) Receipt(ctx context.Context, transactionID string) (*ReceiptResult, error) {
	txID, err := hedera.TransactionIdFromString(transactionID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type outcome struct {
		receipt hedera.TransactionReceipt
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		receipt, err := hedera.NewTransactionReceiptQuery().
			SetTransactionID(txID).
			Execute(g.client)
		done <- outcome{receipt: receipt, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ErrReceiptPending
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReceiptPending, out.err)
		}
		switch out.receipt.Status {
		case hedera.StatusUnknown, hedera.StatusReceiptNotFound:
			return nil, ErrReceiptPending
		}
		return &ReceiptResult{
			Status:  out.receipt.Status.String(),
			Success: out.receipt.Status == hedera.StatusSuccess,
		}, nil
	}
}
