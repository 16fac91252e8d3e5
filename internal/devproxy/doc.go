// Package devproxy はローカル開発用のHTTPプロキシを提供する。
//
// フロントエンドからの /api 以下のリクエストをバックエンドへ転送する。
// 転送先はHTTPSの自己署名証明書を想定し、既定では証明書を検証しない。
// 転送先の代わりにモックAPIのハンドラを直接つなぐこともできる。
package devproxy
