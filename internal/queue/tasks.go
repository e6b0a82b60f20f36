package queue

import (
	"encoding/json"
	"errors"

	"github.com/hbarlink/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPaymentConfirm 链上确认支付任务
	TaskPaymentConfirm = constants.TaskPaymentConfirm
)

// PaymentConfirmPayload 支付确认任务载荷
type PaymentConfirmPayload struct {
	PaymentID uint `json:"payment_id"`
}

// NewPaymentConfirmTask 创建支付确认任务
func NewPaymentConfirmTask(payload PaymentConfirmPayload) (*asynq.Task, error) {
	if payload.PaymentID == 0 {
		return nil, errors.New("payment id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentConfirm, body), nil
}

// ParsePaymentConfirmPayload 解析支付确认任务载荷
func ParsePaymentConfirmPayload(task *asynq.Task) (PaymentConfirmPayload, error) {
	var payload PaymentConfirmPayload
	if task == nil {
		return payload, errors.New("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
