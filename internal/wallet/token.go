package wallet

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenSubject = "wallet_session"

// ErrInvalidToken 会话令牌无效
var ErrInvalidToken = errors.New("invalid wallet session token")

// SessionClaims 会话令牌声明
type SessionClaims struct {
	Network string `json:"network"`
	jwt.RegisteredClaims
}

// TokenIssuer 会话令牌签发与解析
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer 创建令牌签发器
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue 为会话签发令牌
func (t *TokenIssuer) Issue(session *Session, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Network: session.Network,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   sessionTokenSubject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse 解析令牌并返回会话 ID
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(sessionTokenSubject),
	)
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
