package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/i18n"
	"github.com/hbarlink/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiterlib "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 频率限制中间件
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := rateLimitKey(c, rule, keyFunc)
		result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Result()
		if err != nil {
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}

		values, ok := result.([]interface{})
		if !ok || len(values) < 2 {
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}
		count, ok := toInt64(values[0])
		if !ok {
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}
		ttlSeconds, _ := toInt64(values[1])
		if count > int64(rule.MaxRequests) {
			rejectRateLimited(c, rule, int(ttlSeconds))
			return
		}

		c.Next()
	}
}

// MemoryRateLimitMiddleware 进程内频率限制，未启用 Redis 时使用
func MemoryRateLimitMiddleware(rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	period := time.Duration(rule.WindowSeconds) * time.Second
	store := memory.NewStoreWithOptions(limiterlib.StoreOptions{
		Prefix:          rule.Prefix,
		CleanUpInterval: period,
	})
	instance := limiterlib.New(store, limiterlib.Rate{
		Period: period,
		Limit:  int64(rule.MaxRequests),
	})

	return func(c *gin.Context) {
		key := rateLimitKey(c, RateLimitRule{}, keyFunc)
		result, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			logger.Warnw("rate_limit_memory_failed", "key", key, "error", err)
			c.Next()
			return
		}
		if result.Reached {
			rejectRateLimited(c, rule, int(result.Reset-time.Now().Unix()))
			return
		}
		c.Next()
	}
}

// NewRateLimitMiddleware Redis 可用时使用共享计数，否则退回进程内计数
func NewRateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if client != nil {
		return RateLimitMiddleware(client, rule, keyFunc)
	}
	return MemoryRateLimitMiddleware(rule, keyFunc)
}

func rateLimitKey(c *gin.Context, rule RateLimitRule, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if rule.Prefix != "" {
		key = fmt.Sprintf("%s:%s", rule.Prefix, key)
	}
	return key
}

func rejectRateLimited(c *gin.Context, rule RateLimitRule, waitSeconds int) {
	if waitSeconds < 1 {
		waitSeconds = rule.WindowSeconds
	}
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.rate_limited"
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds)
	c.Header("Retry-After", fmt.Sprint(waitSeconds))
	response.Error(c, response.CodeTooManyRequests, msg)
	c.Abort()
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 IP + JSON 字段作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	value, ok := payload[field]
	if !ok {
		return ""
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}
