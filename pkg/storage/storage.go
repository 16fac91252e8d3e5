package storage

import (
	"context"
	"sync"
)

const (
	// KeyToken は認証トークンを保存するキー。
	KeyToken = "token"
	// KeyAuth はトークンとユーザー情報をまとめたセッションオブジェクトを保存するキー。
	KeyAuth = "auth"
)

// Storage は文字列キーと文字列値を保持するKVSのインターフェース。
type Storage interface {
	// Get はキーに対応する値を返す。存在しない場合はokがfalseになる。
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set はキーに値を保存する。既存の値は上書きされる。
	Set(ctx context.Context, key, value string) error
	// Remove はキーを削除する。存在しないキーの削除はエラーにならない。
	Remove(ctx context.Context, key string) error
}

// Memory はプロセス内でのみ有効なセッションスコープのストア。
// プロセス終了とともに内容は失われる。
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory は空のメモリストアを生成する。
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get はキーに対応する値を返す。
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set はキーに値を保存する。
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove はキーを削除する。
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// TokenStore はStorage上の認証トークンを読み書きする。
// HTTPクライアントのリクエスト/レスポンス処理から使用される。
type TokenStore struct {
	kv Storage
}

// NewTokenStore は指定したストアを使うTokenStoreを生成する。
func NewTokenStore(kv Storage) *TokenStore {
	return &TokenStore{kv: kv}
}

// LoadToken は保存されているトークンを返す。未保存の場合は空文字列を返す。
func (t *TokenStore) LoadToken(ctx context.Context) (string, error) {
	v, ok, err := t.kv.Get(ctx, KeyToken)
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}

// EvictToken は保存されているトークンを削除する。
func (t *TokenStore) EvictToken(ctx context.Context) error {
	return t.kv.Remove(ctx, KeyToken)
}
