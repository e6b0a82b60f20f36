package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// OptionalPagination 读取 page / page_size，未传 page_size 时返回 (1, 0) 表示不分页。
func OptionalPagination(c *gin.Context) (int, int, bool) {
	rawSize := strings.TrimSpace(c.Query("page_size"))
	if rawSize == "" {
		return 1, 0, false
	}
	page, _ := strconv.Atoi(strings.TrimSpace(c.DefaultQuery("page", "1")))
	pageSize, _ := strconv.Atoi(rawSize)
	page, pageSize = NormalizePagination(page, pageSize)
	return page, pageSize, true
}
