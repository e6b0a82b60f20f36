package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hbarlink/internal/cache"
	"github.com/hbarlink/internal/constants"
)

// Store 会话存储
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// CacheStore 基于 Redis 缓存的会话存储，多实例部署时使用
type CacheStore struct{}

// NewCacheStore 创建 Redis 会话存储
func NewCacheStore() *CacheStore {
	return &CacheStore{}
}

func sessionKey(id string) string {
	return fmt.Sprintf(constants.CacheKeyWalletSession, id)
}

// Get 读取会话
func (CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	hit, err := cache.GetJSON(ctx, sessionKey(id), &session)
	if err != nil || !hit {
		return nil, err
	}
	return &session, nil
}

// Save 写入会话
func (CacheStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	return cache.SetJSON(ctx, sessionKey(session.ID), session, ttl)
}

// Delete 删除会话
func (CacheStore) Delete(ctx context.Context, id string) error {
	return cache.Del(ctx, sessionKey(id))
}

// memorySweepInterval 两次全量清理过期会话的最小间隔
const memorySweepInterval = time.Minute

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore 进程内会话存储，单实例或未启用 Redis 时使用
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore 创建进程内会话存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get 读取会话，过期条目惰性清理
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

// Save 写入会话副本，并顺带清理过期条目
func (s *MemoryStore) Save(_ context.Context, session *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	entry := memoryEntry{session: *session}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	s.entries[session.ID] = entry
	return nil
}

// Delete 删除会话
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len 当前保留的会话数（含尚未清理的过期条目）
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// 调用方需持有锁；未到清理间隔时直接返回
func (s *MemoryStore) sweepLocked(now time.Time) {
	if !s.lastSweep.IsZero() && now.Sub(s.lastSweep) < memorySweepInterval {
		return
	}
	s.lastSweep = now
	for id, entry := range s.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
