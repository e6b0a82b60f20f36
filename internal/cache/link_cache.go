package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLinkCacheTTL = 5 * time.Minute
	// 代数键只需覆盖一次读库到回填的时间窗口
	linkGenerationTTL = 24 * time.Hour
)

var errStaleLinkGeneration = errors.New("link cache generation changed")

func linkKey(id string) string {
	return fmt.Sprintf(constants.CacheKeyLink, id)
}

func linkGenerationKey(id string) string {
	return fmt.Sprintf(constants.CacheKeyLinkGen, id)
}

// GetLink 读取链接缓存
func GetLink(ctx context.Context, id string) (*models.PaymentLink, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}
	var link models.PaymentLink
	hit, err := GetJSON(ctx, linkKey(id), &link)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &link, true, nil
}

// LinkGeneration 读取链接缓存代数，须在读库之前调用
func LinkGeneration(ctx context.Context, id string) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	gen, err := redisClient.Get(ctx, buildKey(linkGenerationKey(id))).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetLinkIfGeneration 代数与读库前一致时才回填，避免并发写之后写回旧数据
func SetLinkIfGeneration(ctx context.Context, link *models.PaymentLink, ttl time.Duration, gen int64) (bool, error) {
	if !Enabled() || link == nil || link.ID == "" {
		return false, nil
	}
	if ttl <= 0 {
		ttl = defaultLinkCacheTTL
	}
	payload, err := json.Marshal(link)
	if err != nil {
		return false, err
	}
	genKey := buildKey(linkGenerationKey(link.ID))
	err = redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != gen {
			return errStaleLinkGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, buildKey(linkKey(link.ID)), payload, ttl)
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleLinkGeneration), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

// DelLink 删除链接缓存并递增代数
func DelLink(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" || !Enabled() {
		return nil
	}
	genKey := buildKey(linkGenerationKey(id))
	_, err := redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, buildKey(linkKey(id)))
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, linkGenerationTTL)
		return nil
	})
	return err
}
