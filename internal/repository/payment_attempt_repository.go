package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/hbarlink/internal/models"

	"gorm.io/gorm"
)

// PaymentAttemptRepository 支付尝试数据访问接口
type PaymentAttemptRepository interface {
	Create(attempt *models.PaymentAttempt) error
	GetByID(id uint) (*models.PaymentAttempt, error)
	GetLatestByTxID(txID string) (*models.PaymentAttempt, error)
	ListByLinkID(filter PaymentAttemptListFilter) ([]models.PaymentAttempt, int64, error)
	TransitionStatus(id uint, from, to string, errMsg *string) (bool, error)
	MarkCredited(id uint, at time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormPaymentAttemptRepository
}

// GormPaymentAttemptRepository GORM 实现
type GormPaymentAttemptRepository struct {
	db *gorm.DB
}

// NewPaymentAttemptRepository 创建支付尝试仓库
func NewPaymentAttemptRepository(db *gorm.DB) *GormPaymentAttemptRepository {
	return &GormPaymentAttemptRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentAttemptRepository) WithTx(tx *gorm.DB) *GormPaymentAttemptRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentAttemptRepository{db: tx}
}

// Create 创建支付尝试记录
func (r *GormPaymentAttemptRepository) Create(attempt *models.PaymentAttempt) error {
	return r.db.Create(attempt).Error
}

// GetByID 根据 ID 获取支付尝试
func (r *GormPaymentAttemptRepository) GetByID(id uint) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

// GetLatestByTxID 根据交易ID获取最新记录
func (r *GormPaymentAttemptRepository) GetLatestByTxID(txID string) (*models.PaymentAttempt, error) {
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return nil, nil
	}
	var attempt models.PaymentAttempt
	result := r.db.Where("tx_id = ?", txID).Order("id desc").Limit(1).Find(&attempt)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &attempt, nil
}

// ListByLinkID 获取链接的支付尝试
func (r *GormPaymentAttemptRepository) ListByLinkID(filter PaymentAttemptListFilter) ([]models.PaymentAttempt, int64, error) {
	query := r.db.Model(&models.PaymentAttempt{}).Where("link_id = ?", filter.LinkID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	attempts := make([]models.PaymentAttempt, 0)
	if err := query.Order("id desc").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// TransitionStatus 条件更新状态，仅当当前状态为 from 时生效
func (r *GormPaymentAttemptRepository) TransitionStatus(id uint, from, to string, errMsg *string) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if errMsg != nil {
		updates["error"] = *errMsg
	}
	result := r.db.Model(&models.PaymentAttempt{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCredited 标记已计入汇总，重复标记返回 false
func (r *GormPaymentAttemptRepository) MarkCredited(id uint, at time.Time) (bool, error) {
	result := r.db.Model(&models.PaymentAttempt{}).
		Where("id = ? AND credited_at IS NULL", id).
		UpdateColumns(map[string]interface{}{
			"credited_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
