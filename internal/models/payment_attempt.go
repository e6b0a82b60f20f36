package models

import (
	"time"
)

// PaymentAttempt 支付尝试记录（含失败记录，用于审计）
type PaymentAttempt struct {
	ID           uint       `gorm:"primarykey" json:"id"`                           // 主键
	LinkID       string     `gorm:"type:varchar(80);index;not null" json:"link_id"` // 支付链接ID
	Amount       Amount     `gorm:"type:decimal(24,8);not null" json:"amount"`      // 支付金额
	PayerAccount *string    `gorm:"type:varchar(64)" json:"payer_account"`          // 付款账户
	Memo         *string    `gorm:"type:varchar(255)" json:"memo"`                  // 备注
	TxID         *string    `gorm:"type:varchar(128);index" json:"tx_id"`           // 交易ID
	Status       string     `gorm:"type:varchar(20);index;not null" json:"status"`  // 状态 submitted/success/failed
	Error        *string    `gorm:"type:text" json:"error"`                         // 错误信息
	Ledger       *string    `gorm:"type:varchar(32)" json:"ledger"`                 // 账本网络
	CreditedAt   *time.Time `gorm:"index" json:"credited_at"`                       // 计入汇总时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (PaymentAttempt) TableName() string {
	return "payments"
}
