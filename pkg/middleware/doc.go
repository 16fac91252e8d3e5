// Package middleware はGinベースのHTTPサーバーで使用する共通ミドルウェアを提供する。
//
// 開発用プロキシとモックAPIで使用する。JWTトークンの発行と検証、
// パニックリカバリ、CORS設定を含む。
package middleware
