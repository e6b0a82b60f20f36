package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEnUS    = "en-US"
	LocaleZhCN    = "zh-CN"
	DefaultLocale = LocaleEnUS
)

// ResolveLocale 解析请求语言：?lang > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := c.Query("lang"); lang != "" {
		return NormalizeLocale(lang)
	}
	if lang := c.GetHeader("X-Locale"); lang != "" {
		return NormalizeLocale(lang)
	}
	accept := c.GetHeader("Accept-Language")
	if accept == "" {
		return DefaultLocale
	}
	first := strings.SplitN(accept, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return NormalizeLocale(first)
}

// NormalizeLocale 归一化语言标识
func NormalizeLocale(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(normalized, "zh") {
		return LocaleZhCN
	}
	return DefaultLocale
}

// T 翻译消息，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if table, ok := messages[NormalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
