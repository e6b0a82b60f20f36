package service

import (
	"strings"
	"unicode/utf8"

	"github.com/hbarlink/internal/models"

	"github.com/spf13/cast"
)

// AmountText 将 JSON 中的数字或字符串统一转为文本，nil 返回空串
func AmountText(raw interface{}) (string, bool) {
	if raw == nil {
		return "", true
	}
	text, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// parsePositiveAmount 解析有限正数金额，按 8 位小数截断后仍需为正且不超过总供应量
func parsePositiveAmount(raw string) (models.Amount, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Amount{}, false
	}
	amount, err := models.ParseAmount(raw)
	if err != nil || !amount.IsPositive() || !amount.WithinSupply() {
		return models.Amount{}, false
	}
	return amount, true
}

// truncateRunes 按字符截断
func truncateRunes(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}

// optionalText 截断后为空返回 nil
func optionalText(value string, max int) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	value = truncateRunes(value, max)
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
