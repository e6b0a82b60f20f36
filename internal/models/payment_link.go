package models

import (
	"time"
)

// PaymentLink 支付链接
type PaymentLink struct {
	ID            string    `gorm:"primaryKey;type:varchar(80)" json:"id"`                   // 链接ID（URL 安全）
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`                 // 标题
	ToAccount     string    `gorm:"type:varchar(64);not null;index" json:"to_account"`       // 收款账户 N.N.N
	Amount        Amount    `gorm:"type:decimal(24,8);not null" json:"amount"`               // 金额（HBAR）
	Memo          *string   `gorm:"type:varchar(255)" json:"memo"`                           // 备注
	Description   *string   `gorm:"type:text" json:"description"`                            // 描述
	ComponentCode *string   `gorm:"type:text" json:"component_code"`                         // 生成的展示 HTML
	TotalPaid     Amount    `gorm:"type:decimal(24,8);not null;default:0" json:"total_paid"` // 已收款累计
	PaymentsCount int64     `gorm:"not null;default:0" json:"payments_count"`                // 成功支付次数
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (PaymentLink) TableName() string {
	return "payment_links"
}

// PaymentLinkContentColumns 覆盖写入时允许更新的内容列
var PaymentLinkContentColumns = []string{
	"title",
	"to_account",
	"amount",
	"memo",
	"description",
	"component_code",
	"updated_at",
}
