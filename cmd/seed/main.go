package main

import (
	"context"
	"flag"
	"time"

	"github.com/hbarlink/internal/config"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/repository"
	"github.com/hbarlink/internal/service"
)

const pizzaComponent = `<div style="padding:24px;border-radius:16px;background:#fff3e0">` +
	`<h2 style="margin:0">Pizza Night</h2><p>Split the bill, 20 HBAR each.</p></div>`

// demoLinks 演示链接，使用固定 ID 以便重复执行时覆盖
var demoLinks = []service.CreateLinkInput{
	{
		ID:          "coffee-fund",
		Title:       "Coffee Fund",
		To:          "0.0.1234",
		Amount:      "5",
		Memo:        "Thanks for the coffee",
		Description: "Keep the team caffeinated.",
	},
	{
		ID:     "book-club",
		Title:  "Book Club Dues",
		To:     "0.0.1234",
		Amount: "12.5",
		Memo:   "book club",
	},
	{
		ID:            "pizza-night",
		Title:         "Pizza Night",
		To:            "0.0.5678",
		Amount:        "20",
		ComponentCode: pizzaComponent,
	},
}

func main() {
	var legacy bool
	var legacyTo string
	var legacyAmount string
	flag.BoolVar(&legacy, "legacy", true, "同时写入历史单链接（default，已存在时追加数字后缀）")
	flag.StringVar(&legacyTo, "legacy-to", "0.0.1234", "历史单链接收款账户")
	flag.StringVar(&legacyAmount, "legacy-amount", "1", "历史单链接金额")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	links := service.NewLinkService(
		repository.NewLinkRepository(models.DB),
		cfg.Link.SlugMaxAttempts,
		time.Duration(cfg.Link.CacheTTLSeconds)*time.Second,
	)
	ctx := context.Background()

	for _, input := range demoLinks {
		link, err := links.CreateOrReplace(ctx, input)
		if err != nil {
			stdLog.Printf("Failed to seed link %s: %v", input.ID, err)
			continue
		}
		stdLog.Printf("Seeded link: %s (%s HBAR -> %s)", link.ID, link.Amount.String(), link.ToAccount)
	}

	if legacy {
		// 标题 Default 的 slug 即 default，占用时按 default-1、default-2 依次分配
		link, err := links.CreateOrReplace(ctx, service.CreateLinkInput{
			Title:  "Default",
			To:     legacyTo,
			Amount: legacyAmount,
		})
		if err != nil {
			stdLog.Fatalf("Failed to seed legacy link: %v", err)
		}
		stdLog.Printf("Seeded legacy link: %s", link.ID)
	}

	stdLog.Printf("Seed completed")
}
