package router

import (
	"fmt"
	"strings"

	"github.com/hbarlink/internal/cache"
	"github.com/hbarlink/internal/config"
	publichandlers "github.com/hbarlink/internal/http/handlers/public"
	"github.com/hbarlink/internal/http/response"
	"github.com/hbarlink/internal/i18n"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	// 金额字段保留原始数字文本，避免 float64 精度损失
	binding.EnableDecoderUseNumber = true

	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "hl"
	}
	redisClient := cache.Client()
	generateRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:generate", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.Generate.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.Generate.MaxRequests,
	}
	paymentRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:payment", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.Payment.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.Payment.MaxRequests,
	}
	walletSessionRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:wallet_session", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.WalletSession.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.WalletSession.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		api.GET("/config", publicHandler.GetConfig)

		links := api.Group("/links")
		{
			links.GET("", publicHandler.ListLinks)
			links.POST("", publicHandler.CreateLink)
			links.GET("/:id", publicHandler.GetLink)
			links.PATCH("/:id", publicHandler.UpdateLink)
			links.DELETE("/:id", publicHandler.DeleteLink)
			links.GET("/:id/render", publicHandler.RenderLink)
			links.GET("/:id/payments", publicHandler.ListLinkPayments)
		}

		api.POST("/payments", NewRateLimitMiddleware(redisClient, paymentRule, KeyByIPAndJSONField("linkId")), publicHandler.CreatePayment)
		api.POST("/generate-link", NewRateLimitMiddleware(redisClient, generateRule, KeyByIP), publicHandler.GenerateLink)
		api.POST("/tx/transfer", publicHandler.BuildTransfer)

		walletGroup := api.Group("/wallet")
		{
			walletGroup.POST("/sessions", NewRateLimitMiddleware(redisClient, walletSessionRule, KeyByIP), publicHandler.StartWalletSession)
			session := walletGroup.Group("/session")
			session.Use(WalletSessionMiddleware(c.WalletManager))
			{
				session.GET("", publicHandler.GetWalletSession)
				session.POST("/pair", publicHandler.PairWalletSession)
				session.POST("/pay", publicHandler.PayWithWallet)
				session.DELETE("", publicHandler.DisconnectWalletSession)
			}
		}
	}

	r.GET("/pay/:id", publicHandler.PayPage)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
	})

	return r
}
