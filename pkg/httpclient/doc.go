// Package httpclient はバックエンドAPIとのHTTP通信を行うクライアントを提供する。
//
// すべての呼び出しは固定のベースパス（/api）と10秒のタイムアウトを持つ。
// 保存済みの認証トークンをBearerトークンとして付与し、401を受け取った場合は
// トークンを破棄したうえで注入されたUnauthorizedHandlerに通知する。
// それ以外のエラーは*Errorとしてそのまま呼び出し元に返す。
package httpclient
