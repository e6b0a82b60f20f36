package constants

// 支付尝试状态常量
const (
	PaymentStatusSubmitted = "submitted"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// 账本网络常量
const (
	LedgerNetworkTestnet    = "testnet"
	LedgerNetworkMainnet    = "mainnet"
	LedgerNetworkPreviewnet = "previewnet"
)

// 钱包会话状态常量
const (
	WalletSessionDisconnected = "disconnected"
	WalletSessionPairing      = "pairing"
	WalletSessionPaired       = "paired"
)

// 字段长度限制
const (
	LinkTitleMaxLength       = 80
	LinkMemoMaxLength        = 100
	LinkDescriptionMaxLength = 400
	SlugMaxLength            = 60
	TransferMemoMaxLength    = 100
)

// 默认值
const (
	DefaultLinkTitle      = "Payment"
	SlugFallbackPrefix    = "link-"
	LegacyDefaultLinkID   = "default"
	TransferTemplateType  = "TRANSFER_HBAR_TEMPLATE"
	TinybarPerHbarExp     = 8
	DefaultLedgerCurrency = "HBAR"
)

// 异步任务常量
const (
	QueueDefault          = "default"
	QueueCritical         = "critical"
	TaskPaymentConfirm    = "payment:confirm"
	PaymentConfirmRetries = 8
)

// 缓存键前缀
const (
	CacheKeyLink          = "link:%s"
	CacheKeyLinkGen       = "link:%s:gen"
	CacheKeyWalletSession = "wallet:session:%s"
	CacheKeyPublicConfig  = "public:config"
)
