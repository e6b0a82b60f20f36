package wallet

import (
	"time"

	"github.com/hbarlink/internal/constants"
)

// Session 钱包会话，生命周期 disconnected -> pairing -> paired
type Session struct {
	ID               string     `json:"id"`
	State            string     `json:"state"`
	AccountID        string     `json:"account_id,omitempty"`
	Network          string     `json:"network"`
	PairingExpiresAt *time.Time `json:"pairing_expires_at,omitempty"`
	PairedAt         *time.Time `json:"paired_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsPaired 是否已配对
func (s *Session) IsPaired() bool {
	return s != nil && s.State == constants.WalletSessionPaired && s.AccountID != ""
}

// PairingExpired 配对窗口是否已过期
func (s *Session) PairingExpired(now time.Time) bool {
	if s == nil || s.State != constants.WalletSessionPairing || s.PairingExpiresAt == nil {
		return false
	}
	return !now.Before(*s.PairingExpiresAt)
}
