package shared

import (
	"strings"

	"github.com/hbarlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextStringWithKeys 从上下文读取非空字符串并统一处理错误响应。
func GetContextStringWithKeys(c *gin.Context, key, missingKey string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, missingKey, nil)
		return "", false
	}
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		RespondError(c, response.CodeUnauthorized, missingKey, nil)
		return "", false
	}
	return text, true
}
