package public

import "github.com/hbarlink/internal/provider"

// Handler 公开接口处理器入口
// 说明：支付链接、支付记录、生成、转账模板与钱包会话均为免登录接口。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
