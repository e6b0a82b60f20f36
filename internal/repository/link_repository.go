package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/hbarlink/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkRepository 支付链接数据访问接口
type LinkRepository interface {
	List(filter LinkListFilter) ([]models.PaymentLink, int64, error)
	GetByID(id string) (*models.PaymentLink, error)
	Exists(id string) (bool, error)
	CreateIfAbsent(link *models.PaymentLink) (bool, error)
	Upsert(link *models.PaymentLink) error
	UpdateFields(id string, updates map[string]interface{}) (int64, error)
	Delete(id string) (int64, error)
	IncrementRollup(id string, amount models.Amount) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormLinkRepository
}

// GormLinkRepository GORM 实现
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository 创建支付链接仓库
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLinkRepository) WithTx(tx *gorm.DB) *GormLinkRepository {
	if tx == nil {
		return r
	}
	return &GormLinkRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormLinkRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// List 按创建时间倒序列出链接，PageSize 为 0 时返回全部
func (r *GormLinkRepository) List(filter LinkListFilter) ([]models.PaymentLink, int64, error) {
	query := r.db.Model(&models.PaymentLink{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"id", "title", "to_account"})
		query = query.Where(condition, repeatLikeArgs("%"+escapeLikeValue(keyword)+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	links := make([]models.PaymentLink, 0)
	if err := query.Order("created_at desc").Order("id desc").Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// GetByID 根据 ID 获取链接
func (r *GormLinkRepository) GetByID(id string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	if err := r.db.Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// Exists 判断 ID 是否已被占用
func (r *GormLinkRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.PaymentLink{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateIfAbsent 原子插入，ID 冲突时不写入并返回 false
func (r *GormLinkRepository) CreateIfAbsent(link *models.PaymentLink) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(link)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Upsert 按 ID 覆盖写入内容列，累计字段与创建时间保持不变
func (r *GormLinkRepository) Upsert(link *models.PaymentLink) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(models.PaymentLinkContentColumns),
	}).Create(link).Error
}

// UpdateFields 更新指定字段
func (r *GormLinkRepository) UpdateFields(id string, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := r.db.Model(&models.PaymentLink{}).Where("id = ?", id).UpdateColumns(updates)
	return result.RowsAffected, result.Error
}

// Delete 删除链接，不级联删除支付记录
func (r *GormLinkRepository) Delete(id string) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&models.PaymentLink{})
	return result.RowsAffected, result.Error
}

// IncrementRollup 原子累加已收款金额与次数
func (r *GormLinkRepository) IncrementRollup(id string, amount models.Amount) (int64, error) {
	result := r.db.Model(&models.PaymentLink{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_paid":     gorm.Expr("total_paid + ?", amount),
			"payments_count": gorm.Expr("payments_count + ?", 1),
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}
