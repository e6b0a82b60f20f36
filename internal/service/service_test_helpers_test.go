package service

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/hbarlink/internal/cache"
	"github.com/hbarlink/internal/config"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func setupLinkServiceTest(t *testing.T) (*LinkService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t, "link_service_test")
	return NewLinkService(repository.NewLinkRepository(db), 1000, time.Minute), db
}

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *LinkService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t, "payment_service_test")
	linkRepo := repository.NewLinkRepository(db)
	attemptRepo := repository.NewPaymentAttemptRepository(db)
	return NewPaymentService(linkRepo, attemptRepo), NewLinkService(linkRepo, 1000, time.Minute), db
}

func strPtr(v string) *string {
	return &v
}

// enableTestRedis 启用基于 miniredis 的全局缓存，测试结束后关闭
func enableTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse miniredis port failed: %v", err)
	}
	if err := cache.InitRedis(&config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, Prefix: "test"}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return mr
}
