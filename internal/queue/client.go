package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hbarlink/internal/config"
	"github.com/hbarlink/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 支付相关队列
	CriticalQueue = constants.QueueCritical
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueuePaymentConfirm 推送支付确认任务，回执未就绪时由 asynq 按退避重试
func (c *Client) EnqueuePaymentConfirm(paymentID uint, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if delay < 0 {
		delay = 0
	}
	task, err := NewPaymentConfirmTask(PaymentConfirmPayload{PaymentID: paymentID})
	if err != nil {
		return err
	}
	options := []asynq.Option{
		asynq.Queue(CriticalQueue),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(constants.PaymentConfirmRetries),
		asynq.TaskID(fmt.Sprintf("%s:%d", TaskPaymentConfirm, paymentID)),
	}
	_, err = c.client.Enqueue(task, options...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, CriticalQueue: 2}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		RetryDelayFunc: func(n int, _ error, _ *asynq.Task) time.Duration {
			return paymentConfirmBackoff(n)
		},
	}
}

// paymentConfirmBackoff 5s 起步指数退避，最长 5 分钟
func paymentConfirmBackoff(retried int) time.Duration {
	if retried < 0 {
		retried = 0
	}
	delay := 5 * time.Second
	for i := 0; i < retried && delay < 5*time.Minute; i++ {
		delay *= 2
	}
	if delay > 5*time.Minute {
		delay = 5 * time.Minute
	}
	return delay
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
