// Package config は環境変数からKookingクライアントの設定を読み込む。
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Atrox/homedir"
)

// 環境変数名。
const (
	EnvAPIURL         = "KOOKING_API_URL"
	EnvDataDir        = "KOOKING_DATA_DIR"
	EnvProxyPort      = "KOOKING_PROXY_PORT"
	EnvProxyTarget    = "KOOKING_PROXY_TARGET"
	EnvFrontendURL    = "KOOKING_FRONTEND_URL"
	EnvJWTSecret      = "KOOKING_JWT_SECRET"
	EnvOTLPEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"
	defaultAPIURL     = "http://localhost:8080"
	defaultDataDir    = "~/.kooking"
	defaultProxyPort  = "8080"
	defaultTarget     = "https://localhost:8098"
	defaultFrontend   = "http://localhost:5173"
	defaultJWTSecret  = "dev-secret-key"
	databaseFileName  = "kooking.db"
)

// Config はクライアントと開発用プロキシの設定。
type Config struct {
	// APIURL はAPIゲートウェイのベースURL。/api はクライアントが付与する。
	APIURL string
	// DataDir はセッションを保存するディレクトリ。~ を含んでよい。
	DataDir string
	// ProxyPort は開発用プロキシのリッスンポート。
	ProxyPort string
	// ProxyTarget は開発用プロキシの転送先。
	ProxyTarget string
	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string
	// JWTSecret はモックAPIがトークンの署名に使う鍵。
	JWTSecret string
	// OTLPEndpoint はトレースの送信先。空の場合は送信しない。
	OTLPEndpoint string
	// OTLPInsecure が真の場合はTLSを使わずに送信する。
	OTLPInsecure bool
}

// Load は環境変数から設定を読み込む。未設定の項目には既定値を使う。
func Load() Config {
	return Config{
		APIURL:       getEnvOr(EnvAPIURL, defaultAPIURL),
		DataDir:      getEnvOr(EnvDataDir, defaultDataDir),
		ProxyPort:    getEnvOr(EnvProxyPort, defaultProxyPort),
		ProxyTarget:  getEnvOr(EnvProxyTarget, defaultTarget),
		FrontendURL:  getEnvOr(EnvFrontendURL, defaultFrontend),
		JWTSecret:    getEnvOr(EnvJWTSecret, defaultJWTSecret),
		OTLPEndpoint: os.Getenv(EnvOTLPEndpoint),
		OTLPInsecure: os.Getenv(EnvOTLPInsecure) == "true",
	}
}

// DatabasePath はセッションを保存するSQLiteファイルのパスを返す。
// DataDirの ~ はホームディレクトリに展開する。
func (c Config) DatabasePath() (string, error) {
	dir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return "", fmt.Errorf("データディレクトリの展開に失敗: %w", err)
	}
	return filepath.Join(dir, databaseFileName), nil
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
