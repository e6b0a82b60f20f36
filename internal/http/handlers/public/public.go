package public

import (
	"time"

	"github.com/hbarlink/internal/cache"
	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

const publicConfigCacheTTL = 60 * time.Second

// PublicConfig 浏览器钱包库所需配置
type PublicConfig struct {
	Network                string `json:"network"`
	WalletConnectProjectID string `json:"walletConnectProjectId"`
}

// GetConfig 获取公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	var cached PublicConfig
	if hit, err := cache.GetJSON(c.Request.Context(), constants.CacheKeyPublicConfig, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data := PublicConfig{
		Network:                h.WalletManager.Network(),
		WalletConnectProjectID: h.Config.Wallet.ProjectID,
	}
	_ = cache.SetJSON(c.Request.Context(), constants.CacheKeyPublicConfig, data, publicConfigCacheTTL)
	response.Success(c, data)
}
