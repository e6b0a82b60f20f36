package worker

import (
	"context"
	"errors"

	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/provider"
	"github.com/hbarlink/internal/queue"
	"github.com/hbarlink/internal/service"

	"github.com/hibiken/asynq"
)

// PaymentConfirmer 支付确认能力
type PaymentConfirmer interface {
	ConfirmAttempt(ctx context.Context, attemptID uint) error
}

// Consumer 异步任务消费者
type Consumer struct {
	payments PaymentConfirmer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return &Consumer{}
	}
	return &Consumer{payments: c.PaymentService}
}

// NewConsumerWith 使用指定实现创建消费者
func NewConsumerWith(payments PaymentConfirmer) *Consumer {
	return &Consumer{payments: payments}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPaymentConfirm, c.handlePaymentConfirm)
}

func (c *Consumer) handlePaymentConfirm(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_confirm_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePaymentConfirmPayload(task)
	if err != nil {
		logger.Warnw("worker_payment_confirm_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.PaymentID == 0 {
		logger.Debugw("worker_payment_confirm_skip_invalid_payload", "payment_id", payload.PaymentID)
		return nil
	}
	if c.payments == nil {
		logger.Warnw("worker_payment_confirm_skip_service_nil", "payment_id", payload.PaymentID)
		return nil
	}
	if err := c.payments.ConfirmAttempt(ctx, payload.PaymentID); err != nil {
		switch {
		case errors.Is(err, ledger.ErrReceiptPending):
			logger.Debugw("worker_payment_confirm_pending", "payment_id", payload.PaymentID)
			return err
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_payment_confirm_skip_not_found", "payment_id", payload.PaymentID)
			return nil
		default:
			logger.Warnw("worker_payment_confirm_failed", "payment_id", payload.PaymentID, "error", err)
			return err
		}
	}
	return nil
}
