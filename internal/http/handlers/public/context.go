package public

import (
	handlershared "github.com/hbarlink/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// WalletSessionContextKey 钱包会话中间件写入的上下文键
const WalletSessionContextKey = "wallet_session_id"

func getWalletSessionID(c *gin.Context) (string, bool) {
	return handlershared.GetContextStringWithKeys(c, WalletSessionContextKey, "error.wallet_token_required")
}
