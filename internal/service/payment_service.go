package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hbarlink/internal/cache"
	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/repository"

	"gorm.io/gorm"
)

// PaymentStatus 支付尝试状态，仅允许 submitted / success / failed
type PaymentStatus string

const (
	PaymentSubmitted PaymentStatus = constants.PaymentStatusSubmitted
	PaymentSuccess   PaymentStatus = constants.PaymentStatusSuccess
	PaymentFailed    PaymentStatus = constants.PaymentStatusFailed
)

// ParsePaymentStatus 解析状态，空值默认为 submitted
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PaymentSubmitted:
		return PaymentSubmitted, nil
	case PaymentSuccess:
		return PaymentSuccess, nil
	case PaymentFailed:
		return PaymentFailed, nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

// PaymentConfirmEnqueuer 投递待确认支付任务
type PaymentConfirmEnqueuer interface {
	EnqueuePaymentConfirm(attemptID uint, delay time.Duration) error
}

// PaymentService 支付记录与汇总服务
type PaymentService struct {
	linkRepo     repository.LinkRepository
	attemptRepo  repository.PaymentAttemptRepository
	gateway      ledger.Gateway
	enqueuer     PaymentConfirmEnqueuer
	confirmDelay time.Duration
	now          func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(linkRepo repository.LinkRepository, attemptRepo repository.PaymentAttemptRepository) *PaymentService {
	return &PaymentService{
		linkRepo:    linkRepo,
		attemptRepo: attemptRepo,
		now:         time.Now,
	}
}

// WithConfirmation 启用链上确认：submitted 且带交易ID的记录会投递确认任务
func (s *PaymentService) WithConfirmation(gateway ledger.Gateway, enqueuer PaymentConfirmEnqueuer, delay time.Duration) *PaymentService {
	s.gateway = gateway
	s.enqueuer = enqueuer
	s.confirmDelay = delay
	return s
}

// RecordPaymentInput 记录支付尝试输入
type RecordPaymentInput struct {
	LinkID       string
	Amount       string
	PayerAccount string
	Memo         string
	TxID         string
	Status       string
	Error        string
	Ledger       string
}

// RecordAttempt 无条件写入支付尝试；仅 success 状态计入链接汇总
func (s *PaymentService) RecordAttempt(ctx context.Context, input RecordPaymentInput) (*models.PaymentAttempt, error) {
	linkID := strings.TrimSpace(input.LinkID)
	amountText := strings.TrimSpace(input.Amount)
	if linkID == "" || amountText == "" {
		return nil, ErrPaymentFieldsRequired
	}
	amount, ok := parsePositiveAmount(amountText)
	if !ok {
		return nil, ErrInvalidAmount
	}
	status, err := ParsePaymentStatus(input.Status)
	if err != nil {
		return nil, err
	}

	attempt := &models.PaymentAttempt{
		LinkID:       linkID,
		Amount:       amount,
		PayerAccount: optionalText(input.PayerAccount, 0),
		Memo:         optionalText(input.Memo, constants.LinkMemoMaxLength),
		TxID:         optionalText(input.TxID, 0),
		Status:       string(status),
		Error:        optionalText(input.Error, 0),
		Ledger:       optionalText(input.Ledger, 0),
	}
	if status != PaymentSuccess {
		if err := s.attemptRepo.Create(attempt); err != nil {
			return nil, err
		}
		if status == PaymentSubmitted {
			s.scheduleConfirm(attempt)
		}
		return attempt, nil
	}

	// 成功记录与汇总同一事务提交，避免出现已记录未计入的半成品
	now := s.now()
	credited := false
	err = s.linkRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.attemptRepo.WithTx(tx).Create(attempt); err != nil {
			return err
		}
		var err error
		credited, err = s.creditTx(tx, attempt, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterCredit(ctx, attempt, credited, now)
	return attempt, nil
}

// Credit 将成功的支付尝试计入链接汇总，每条记录至多计入一次
func (s *PaymentService) Credit(ctx context.Context, attempt *models.PaymentAttempt) (bool, error) {
	if attempt == nil || attempt.Status != constants.PaymentStatusSuccess {
		return false, nil
	}
	now := s.now()
	credited := false
	err := s.linkRepo.Transaction(func(tx *gorm.DB) error {
		var err error
		credited, err = s.creditTx(tx, attempt, now)
		return err
	})
	if err != nil {
		return false, err
	}
	s.afterCredit(ctx, attempt, credited, now)
	return credited, nil
}

// creditTx 在事务内标记计入并累加汇总，已计入过返回 false
func (s *PaymentService) creditTx(tx *gorm.DB, attempt *models.PaymentAttempt, now time.Time) (bool, error) {
	if strings.TrimSpace(attempt.LinkID) == "" || !attempt.Amount.IsPositive() {
		return false, nil
	}
	marked, err := s.attemptRepo.WithTx(tx).MarkCredited(attempt.ID, now)
	if err != nil || !marked {
		return false, err
	}
	affected, err := s.linkRepo.WithTx(tx).IncrementRollup(attempt.LinkID, attempt.Amount)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		logger.Debugw("payment_rollup_link_missing", "link_id", attempt.LinkID, "payment_id", attempt.ID)
	}
	return true, nil
}

func (s *PaymentService) afterCredit(ctx context.Context, attempt *models.PaymentAttempt, credited bool, now time.Time) {
	if !credited {
		return
	}
	attempt.CreditedAt = &now
	if err := cache.DelLink(ctx, attempt.LinkID); err != nil {
		logger.Warnw("link_cache_del_failed", "link_id", attempt.LinkID, "error", err)
	}
}

// ListAttempts 获取链接的支付尝试
func (s *PaymentService) ListAttempts(linkID, status string, page, pageSize int) ([]models.PaymentAttempt, int64, error) {
	return s.attemptRepo.ListByLinkID(repository.PaymentAttemptListFilter{
		LinkID:   strings.TrimSpace(linkID),
		Status:   strings.TrimSpace(status),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *PaymentService) scheduleConfirm(attempt *models.PaymentAttempt) {
	if s.enqueuer == nil || attempt.TxID == nil {
		return
	}
	if err := s.enqueuer.EnqueuePaymentConfirm(attempt.ID, s.confirmDelay); err != nil {
		logger.Warnw("payment_confirm_enqueue_failed", "payment_id", attempt.ID, "error", err)
	}
}

// ConfirmAttempt 查询链上回执并推进 submitted 状态；回执未就绪时返回错误以便重试
func (s *PaymentService) ConfirmAttempt(ctx context.Context, attemptID uint) error {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return err
	}
	if attempt == nil {
		logger.Debugw("payment_confirm_skip_missing", "payment_id", attemptID)
		return nil
	}
	if attempt.Status != constants.PaymentStatusSubmitted || attempt.TxID == nil {
		logger.Debugw("payment_confirm_skip_state", "payment_id", attemptID, "status", attempt.Status)
		return nil
	}
	if s.gateway == nil {
		return errors.New("ledger gateway not configured")
	}

	receipt, err := s.gateway.Receipt(ctx, *attempt.TxID)
	if err != nil {
		return err
	}
	if !receipt.Success {
		msg := receipt.Status
		if _, err := s.attemptRepo.TransitionStatus(attempt.ID, constants.PaymentStatusSubmitted, constants.PaymentStatusFailed, &msg); err != nil {
			return err
		}
		logger.Infow("payment_confirm_failed", "payment_id", attempt.ID, "status", receipt.Status)
		return nil
	}

	moved, err := s.attemptRepo.TransitionStatus(attempt.ID, constants.PaymentStatusSubmitted, constants.PaymentStatusSuccess, nil)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	attempt.Status = constants.PaymentStatusSuccess
	if _, err := s.Credit(ctx, attempt); err != nil {
		return err
	}
	logger.Infow("payment_confirmed", "payment_id", attempt.ID, "link_id", attempt.LinkID)
	return nil
}
