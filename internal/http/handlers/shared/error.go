package shared

import (
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/i18n"
	"github.com/hbarlink/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 按 key 翻译错误信息后响应
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	respond(c, response.WrapError(code, msg, err))
}

// RespondErrorWithMsg 使用已格式化的消息响应（如上游错误详情）
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	respond(c, response.WrapError(code, msg, err))
}

func respond(c *gin.Context, appErr *response.AppError) {
	logHandlerError(c, appErr)
	response.Error(c, appErr.Code, appErr.Message)
}

// 客户端错误只记 warn，服务端错误记 error
func logHandlerError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err == nil {
		return
	}
	kv := []interface{}{
		"code", appErr.Code,
		"message", appErr.Message,
		"error", appErr.Err,
	}
	if c != nil && c.Request != nil {
		kv = append(kv, "method", c.Request.Method, "route", c.FullPath())
	}
	if appErr.IsServerError() {
		RequestLog(c).Errorw("handler_error", kv...)
		return
	}
	RequestLog(c).Warnw("handler_rejected", kv...)
}
