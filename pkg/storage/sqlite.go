package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/nao1215/kooking/pkg/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite はSQLiteファイルに値を保存する永続ストア。
// プロセスを再起動しても内容が保持される。
type SQLite struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// OpenSQLite は指定パスのSQLiteデータベースを開き、スキーマを適用する。
// pathに ":memory:" を指定するとインメモリデータベースになる。
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// 単一クライアントからのみ使用するため、接続は1本に絞る。
	// インメモリDBでは接続ごとに別DBになるので必須。
	db.SetMaxOpenConns(1)

	if err := migration.Run(ctx, db, migrations, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get はキーに対応する値を返す。
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("値の取得に失敗: key=%s: %w", key, err)
	}
	return value, true, nil
}

// Set はキーに値を保存する。
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, key, value)
	if err != nil {
		return fmt.Errorf("値の保存に失敗: key=%s: %w", key, err)
	}
	return nil
}

// Remove はキーを削除する。
func (s *SQLite) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("値の削除に失敗: key=%s: %w", key, err)
	}
	return nil
}

// Close はデータベース接続を閉じる。
func (s *SQLite) Close() error {
	return s.db.Close()
}
