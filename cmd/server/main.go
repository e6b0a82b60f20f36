package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/hbarlink/internal/app"
	"github.com/hbarlink/internal/config"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.Wallet.JWTSecret) {
			stdLog.Fatalf("钱包会话 JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.Wallet.JWTSecret) {
		stdLog.Printf("警告: 钱包会话 JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		stdLog.Printf("警告: 未配置 OPENAI_API_KEY，生成链接接口将返回 500")
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()
	mode, err := app.ParseMode(mode)
	if err != nil {
		stdLog.Fatalf("启动模式无效: %v", err)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║                    HBAR Link API 启动中                      ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "██╗  ██╗██████╗  █████╗ ██████╗     ██╗     ██╗███╗   ██╗██╗  ██╗" + ansiReset)
	fmt.Println(ansiCyan + "██║  ██║██╔══██╗██╔══██╗██╔══██╗    ██║     ██║████╗  ██║██║ ██╔╝" + ansiReset)
	fmt.Println(ansiCyan + "███████║██████╔╝███████║██████╔╝    ██║     ██║██╔██╗ ██║█████╔╝ " + ansiReset)
	fmt.Println(ansiCyan + "██╔══██║██╔══██╗██╔══██║██╔══██╗    ██║     ██║██║╚██╗██║██╔═██╗ " + ansiReset)
	fmt.Println(ansiCyan + "██║  ██║██████╔╝██║  ██║██║  ██║    ███████╗██║██║ ╚████║██║  ██╗" + ansiReset)
	fmt.Println(ansiCyan + "╚═╝  ╚═╝╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝    ╚══════╝╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Endpoints" + ansiReset)
	fmt.Println(ansiBlue + "• API:     /api/links, /api/payments, /api/generate-link, /api/tx/transfer" + ansiReset)
	fmt.Println(ansiBlue + "• Wallet:  /api/wallet/sessions, /api/wallet/session" + ansiReset)
	fmt.Println(ansiBlue + "• Pages:   /pay/:id" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
