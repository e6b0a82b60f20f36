package ledger

import (
	"errors"
	"regexp"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

var accountIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ErrInvalidAccountID 账户格式非法
var ErrInvalidAccountID = errors.New("invalid ledger account id")

// IsAccountID 判断是否符合 N.N.N 账户格式
func IsAccountID(raw string) bool {
	return accountIDPattern.MatchString(raw)
}

// ParseAccountID 按 N.N.N 格式解析账户，不接受校验和或别名
func ParseAccountID(raw string) (hedera.AccountID, error) {
	raw = strings.TrimSpace(raw)
	if !IsAccountID(raw) {
		return hedera.AccountID{}, ErrInvalidAccountID
	}
	id, err := hedera.AccountIDFromString(raw)
	if err != nil {
		return hedera.AccountID{}, ErrInvalidAccountID
	}
	return id, nil
}
