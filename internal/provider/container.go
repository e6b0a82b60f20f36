package provider

import (
	"fmt"
	"time"

	"github.com/hbarlink/internal/cache"
	"github.com/hbarlink/internal/config"
	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/llm"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/queue"
	"github.com/hbarlink/internal/repository"
	"github.com/hbarlink/internal/service"
	"github.com/hbarlink/internal/wallet"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Gateway     ledger.Gateway
	LLMClient   *llm.Client

	// Repositories
	LinkRepo           repository.LinkRepository
	PaymentAttemptRepo repository.PaymentAttemptRepository

	// Services
	LinkService          *service.LinkService
	PaymentService       *service.PaymentService
	PresentationService  *service.PresentationService
	GeneratorService     *service.GeneratorService
	TransferService      *service.TransferService
	WalletManager        *wallet.Manager
	WalletPaymentService *service.WalletPaymentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	gateway, err := ledger.NewSDKGateway(cfg.Ledger.Network, time.Duration(cfg.Ledger.SubmitTimeoutSeconds)*time.Second)
	if err != nil {
		logger.Errorw("provider_init_ledger_failed", "network", cfg.Ledger.Network, "error", err)
		panic(fmt.Errorf("ledger init failed: %w", err))
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Gateway:     gateway,
		LLMClient: llm.NewClient(llm.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
			RetryCount:  cfg.LLM.RetryCount,
		}),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.LinkRepo = repository.NewLinkRepository(db)
	c.PaymentAttemptRepo = repository.NewPaymentAttemptRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.LinkService = service.NewLinkService(c.LinkRepo, cfg.Link.SlugMaxAttempts, time.Duration(cfg.Link.CacheTTLSeconds)*time.Second)
	c.PaymentService = service.NewPaymentService(c.LinkRepo, c.PaymentAttemptRepo)
	if c.QueueClient.Enabled() {
		c.PaymentService.WithConfirmation(c.Gateway, c.QueueClient, time.Duration(cfg.Ledger.ConfirmDelaySeconds)*time.Second)
	} else {
		c.PaymentService.WithConfirmation(c.Gateway, nil, 0)
	}
	c.PresentationService = service.NewPresentationService(cfg.Render.StripJavaScriptURLs)
	c.GeneratorService = service.NewGeneratorService(c.LLMClient)
	c.TransferService = service.NewTransferService(ledger.SDKTransferBuilder{})

	var store wallet.Store = wallet.NewMemoryStore()
	if cache.Enabled() {
		store = wallet.NewCacheStore()
	}
	c.WalletManager = wallet.NewManager(store, wallet.NewTokenIssuer(cfg.Wallet.JWTSecret), wallet.Options{
		Network:        c.Gateway.Network(),
		PairingTimeout: time.Duration(cfg.Wallet.PairingTimeoutSeconds) * time.Second,
		SessionTTL:     time.Duration(cfg.Wallet.SessionTTLMinutes) * time.Minute,
	})
	c.WalletPaymentService = service.NewWalletPaymentService(c.WalletManager, c.LinkService, c.PaymentService, c.Gateway)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if closer, ok := c.Gateway.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warnw("provider_close_ledger_failed", "error", err)
		}
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
