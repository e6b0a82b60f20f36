package config

import (
	"fmt"
	"strings"

	"github.com/hbarlink/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Link     LinkConfig     `mapstructure:"link"`
	Render   RenderConfig   `mapstructure:"render"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	Generate      RateLimitRuleConfig `mapstructure:"generate"`
	Payment       RateLimitRuleConfig `mapstructure:"payment"`
	WalletSession RateLimitRuleConfig `mapstructure:"wallet_session"`
}

// RateLimitRuleConfig 单条限流规则
type RateLimitRuleConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// LLMConfig 大模型生成配置
type LLMConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RetryCount     int     `mapstructure:"retry_count"`
}

// LedgerConfig 账本网络配置
type LedgerConfig struct {
	Network              string `mapstructure:"network"` // testnet / mainnet / previewnet
	SubmitTimeoutSeconds int    `mapstructure:"submit_timeout_seconds"`
	ConfirmDelaySeconds  int    `mapstructure:"confirm_delay_seconds"`
}

// WalletConfig 钱包会话配置
type WalletConfig struct {
	ProjectID             string `mapstructure:"project_id"`
	JWTSecret             string `mapstructure:"jwt_secret"`
	SessionTTLMinutes     int    `mapstructure:"session_ttl_minutes"`
	PairingTimeoutSeconds int    `mapstructure:"pairing_timeout_seconds"`
}

// LinkConfig 支付链接配置
type LinkConfig struct {
	SlugMaxAttempts int `mapstructure:"slug_max_attempts"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// RenderConfig 页面渲染配置
type RenderConfig struct {
	StripJavaScriptURLs bool `mapstructure:"strip_javascript_urls"`
}

// legacyEnvBindings 兼容历史部署使用的环境变量名
var legacyEnvBindings = map[string][]string{
	"llm.api_key":       {"LLM_API_KEY", "OPENAI_API_KEY"},
	"llm.model":         {"LLM_MODEL", "OPENAI_MODEL"},
	"ledger.network":    {"LEDGER_NETWORK", "HEDERA_NETWORK"},
	"wallet.project_id": {"WALLET_PROJECT_ID", "WALLETCONNECT_PROJECT_ID"},
	"database.dsn":      {"DATABASE_DSN", "DATABASE_URL"},
}

// Load 从 config.yml 加载配置
func Load() *Config {
	// .env 仅作为环境变量补充，不覆盖已存在的变量
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)
	for key, envs := range legacyEnvBindings {
		args := append([]string{key}, envs...)
		if err := viper.BindEnv(args...); err != nil {
			logger.Warnw("config_env_bind_failed", "key", key, "error", err)
		}
	}

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/hbarlink.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "hl")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.rate_limit.generate.window_seconds", 60)
	v.SetDefault("security.rate_limit.generate.max_requests", 10)
	v.SetDefault("security.rate_limit.payment.window_seconds", 60)
	v.SetDefault("security.rate_limit.payment.max_requests", 60)
	v.SetDefault("security.rate_limit.wallet_session.window_seconds", 60)
	v.SetDefault("security.rate_limit.wallet_session.max_requests", 20)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.temperature", 1)
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("llm.retry_count", 0)
	v.SetDefault("ledger.network", "testnet")
	v.SetDefault("ledger.submit_timeout_seconds", 30)
	v.SetDefault("ledger.confirm_delay_seconds", 5)
	v.SetDefault("wallet.project_id", "")
	v.SetDefault("wallet.jwt_secret", "change-me-in-production")
	v.SetDefault("wallet.session_ttl_minutes", 120)
	v.SetDefault("wallet.pairing_timeout_seconds", 60)
	v.SetDefault("link.slug_max_attempts", 1000)
	v.SetDefault("link.cache_ttl_seconds", 300)
	v.SetDefault("render.strip_javascript_urls", true)
}
