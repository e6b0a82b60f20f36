package wallet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/ledger"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("wallet session not found")
	ErrPairingExpired  = errors.New("wallet pairing expired")
	ErrInvalidState    = errors.New("wallet session state does not allow this action")
	ErrNotPaired       = errors.New("wallet session is not paired")
	ErrInvalidAccount  = errors.New("invalid wallet account id")
)

// Options 会话管理配置
type Options struct {
	Network        string
	PairingTimeout time.Duration
	SessionTTL     time.Duration
}

// Manager 会话管理器，每个访客持有独立会话
type Manager struct {
	store  Store
	tokens *TokenIssuer
	opts   Options
	now    func() time.Time
}

// NewManager 创建会话管理器
func NewManager(store Store, tokens *TokenIssuer, opts Options) *Manager {
	if opts.PairingTimeout <= 0 {
		opts.PairingTimeout = 60 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.Network == "" {
		opts.Network = constants.LedgerNetworkTestnet
	}
	return &Manager{store: store, tokens: tokens, opts: opts, now: time.Now}
}

// Network 会话所在网络
func (m *Manager) Network() string {
	return m.opts.Network
}

// Start 创建处于 pairing 状态的会话并签发令牌
func (m *Manager) Start(ctx context.Context) (*Session, string, error) {
	now := m.now()
	expires := now.Add(m.opts.PairingTimeout)
	session := &Session{
		ID:               uuid.NewString(),
		State:            constants.WalletSessionPairing,
		Network:          m.opts.Network,
		PairingExpiresAt: &expires,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := m.store.Save(ctx, session, m.opts.SessionTTL); err != nil {
		return nil, "", err
	}
	token, err := m.tokens.Issue(session, now.Add(m.opts.SessionTTL))
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

// Authenticate 解析令牌并返回会话 ID
func (m *Manager) Authenticate(token string) (string, error) {
	return m.tokens.Parse(strings.TrimSpace(token))
}

// Current 获取会话，配对超时的会话视为 disconnected
func (m *Manager) Current(ctx context.Context, id string) (*Session, error) {
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.PairingExpired(m.now()) {
		session.State = constants.WalletSessionDisconnected
		session.PairingExpiresAt = nil
		session.UpdatedAt = m.now()
		if err := m.store.Save(ctx, session, m.opts.SessionTTL); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Pair 钱包扩展完成配对后回填账户
func (m *Manager) Pair(ctx context.Context, id, accountID string) (*Session, error) {
	accountID = strings.TrimSpace(accountID)
	if !ledger.IsAccountID(accountID) {
		return nil, ErrInvalidAccount
	}
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	now := m.now()
	if session.PairingExpired(now) {
		return nil, ErrPairingExpired
	}
	if session.State != constants.WalletSessionPairing {
		return nil, ErrInvalidState
	}
	session.State = constants.WalletSessionPaired
	session.AccountID = accountID
	session.PairingExpiresAt = nil
	session.PairedAt = &now
	session.UpdatedAt = now
	if err := m.store.Save(ctx, session, m.opts.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// RequirePaired 获取已配对会话
func (m *Manager) RequirePaired(ctx context.Context, id string) (*Session, error) {
	session, err := m.Current(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsPaired() {
		return nil, ErrNotPaired
	}
	return session, nil
}

// Disconnect 断开并移除会话，重复断开视为成功
func (m *Manager) Disconnect(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}
