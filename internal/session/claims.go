package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated はトークンを保持していないことを表す。
var ErrNotAuthenticated = errors.New("ログインしていません")

// TokenClaims は表示用にトークンから取り出したクレーム。
type TokenClaims struct {
	jwt.RegisteredClaims
	// Email はバックエンドがトークンに含めるメールアドレス。
	Email string `json:"email,omitempty"`
}

// Claims は保持しているトークンのクレームを返す。
// 署名は検証しない。検証はバックエンドの責務であり、ここでは有効期限などの表示にのみ使う。
func (s *Store) Claims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("トークンの解析に失敗: %w", err)
	}
	return claims, nil
}
