package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale 金额精度（1 HBAR = 10^8 tinybar）
const AmountScale = 8

// MaxHbarSupply HBAR 总供应量，单笔金额不得超过
const MaxHbarSupply = 50_000_000_000

var maxAmount = decimal.NewFromInt(MaxHbarSupply)

// Amount 账本原生单位金额，保留 8 位小数
type Amount struct {
	decimal.Decimal
}

// NewAmount 从 decimal 创建金额
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d.Round(AmountScale)}
}

// NewAmountFromInt 从整数创建金额
func NewAmountFromInt(v int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(v)}
}

// ParseAmount 解析金额字符串
func ParseAmount(raw string) (Amount, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(d), nil
}

// IsPositive 是否为正数
func (a Amount) IsPositive() bool {
	return a.Decimal.Round(AmountScale).IsPositive()
}

// WithinSupply 金额不超过总供应量，保证换算成 tinybar 不溢出 int64
func (a Amount) WithinSupply() bool {
	return a.Decimal.LessThanOrEqual(maxAmount)
}

// Tinybars 转换为最小单位
func (a Amount) Tinybars() int64 {
	return a.Decimal.Shift(AmountScale).Round(0).IntPart()
}

// MarshalJSON 以 JSON 数字输出
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.Round(AmountScale).String()), nil
}

// UnmarshalJSON 解析金额（字符串或数字）
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	a.Decimal = d.Round(AmountScale)
	return nil
}

// Value 用于数据库写入
func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.Round(AmountScale).Value()
}

// Scan 用于数据库读取
func (a *Amount) Scan(value interface{}) error {
	if err := a.Decimal.Scan(value); err != nil {
		return err
	}
	a.Decimal = a.Decimal.Round(AmountScale)
	return nil
}

// String 返回去除尾零的十进制表示
func (a Amount) String() string {
	return a.Decimal.Round(AmountScale).String()
}
