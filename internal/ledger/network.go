package ledger

import (
	"fmt"
	"strings"

	"github.com/hbarlink/internal/constants"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// NormalizeNetwork 归一化网络名称，空值默认 testnet
func NormalizeNetwork(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", constants.LedgerNetworkTestnet:
		return constants.LedgerNetworkTestnet, nil
	case constants.LedgerNetworkMainnet:
		return constants.LedgerNetworkMainnet, nil
	case constants.LedgerNetworkPreviewnet:
		return constants.LedgerNetworkPreviewnet, nil
	default:
		return "", fmt.Errorf("unsupported ledger network: %s", raw)
	}
}

// NewClient 创建指定网络的 SDK 客户端（无需 operator，仅用于提交已签名交易与查询回执）
func NewClient(network string) (*hedera.Client, error) {
	name, err := NormalizeNetwork(network)
	if err != nil {
		return nil, err
	}
	switch name {
	case constants.LedgerNetworkMainnet:
		return hedera.ClientForMainnet(), nil
	case constants.LedgerNetworkPreviewnet:
		return hedera.ClientForPreviewnet(), nil
	default:
		return hedera.ClientForTestnet(), nil
	}
}
