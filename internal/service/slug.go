package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hbarlink/internal/constants"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s\p{Z}-]+`)
	slugSpaces     = regexp.MustCompile(`[\s\p{Z}]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
	linkIDPattern  = regexp.MustCompile(`^[A-Za-z0-9._~-]{1,80}$`)
)

// Slugify 标题转 URL 安全片段，可能返回空串
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	if len(slug) > constants.SlugMaxLength {
		slug = slug[:constants.SlugMaxLength]
	}
	return slug
}

// SlugBase 生成候选基础 ID，为空时回退为 link-<毫秒时间戳>
func SlugBase(title string, now time.Time) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	return constants.SlugFallbackPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// SlugCandidate 第 n 个候选：base, base-1, base-2 ...
func SlugCandidate(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// IsValidLinkID 调用方显式指定的 ID 需满足 URL 安全字符集
func IsValidLinkID(id string) bool {
	return linkIDPattern.MatchString(id)
}
