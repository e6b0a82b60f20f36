package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/hbarlink/internal/config"
	"github.com/hbarlink/internal/models"

	"github.com/alicebob/miniredis/v2"
)

func setupLinkCacheTest(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse port failed: %v", err)
	}
	if err := InitRedis(&config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, Prefix: "hl"}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
	return mr
}

func TestSetLinkIfGenerationRejectsStaleFill(t *testing.T) {
	mr := setupLinkCacheTest(t)
	ctx := context.Background()
	link := &models.PaymentLink{ID: "coffee", Title: "Coffee", ToAccount: "0.0.1001"}

	gen, err := LinkGeneration(ctx, "coffee")
	if err != nil || gen != 0 {
		t.Fatalf("initial generation want 0 got %d (%v)", gen, err)
	}
	if err := DelLink(ctx, "coffee"); err != nil {
		t.Fatalf("del link failed: %v", err)
	}
	if got, _ := mr.Get("hl:link:coffee:gen"); got != "1" {
		t.Fatalf("generation key want 1 got %q", got)
	}

	stored, err := SetLinkIfGeneration(ctx, link, time.Minute, gen)
	if err != nil || stored {
		t.Fatalf("fill with old generation must be skipped, stored=%v err=%v", stored, err)
	}
	if _, hit, _ := GetLink(ctx, "coffee"); hit {
		t.Fatalf("stale link should not be cached")
	}

	stored, err = SetLinkIfGeneration(ctx, link, time.Minute, 1)
	if err != nil || !stored {
		t.Fatalf("fill with current generation should succeed, stored=%v err=%v", stored, err)
	}
	cached, hit, err := GetLink(ctx, "coffee")
	if err != nil || !hit || cached.Title != "Coffee" {
		t.Fatalf("unexpected cached link: %+v hit=%v err=%v", cached, hit, err)
	}
	if ttl := mr.TTL("hl:link:coffee"); ttl != time.Minute {
		t.Fatalf("cache ttl want 1m got %s", ttl)
	}
}

func TestLinkCacheDisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	if Enabled() {
		t.Fatalf("cache should start disabled")
	}
	if stored, err := SetLinkIfGeneration(ctx, &models.PaymentLink{ID: "x"}, time.Minute, 0); stored || err != nil {
		t.Fatalf("disabled cache must not store, stored=%v err=%v", stored, err)
	}
	if err := DelLink(ctx, "x"); err != nil {
		t.Fatalf("disabled del should be nil: %v", err)
	}
}
