package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// BuildPagination 计算分页信息
func BuildPagination(page, pageSize int, total int64) Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPage: totalPage}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OK 操作成功响应
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Error 错误响应
func Error(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Error:     msg,
		RequestID: requestIDFrom(c),
	})
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// BadRequest 400响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

// HTML 返回 HTML 文档
func HTML(c *gin.Context, statusCode int, body []byte) {
	c.Data(statusCode, "text/html; charset=utf-8", body)
}

func requestIDFrom(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
