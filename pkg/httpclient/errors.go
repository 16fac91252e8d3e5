package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized はサーバーが401を返したことを表す。
	ErrUnauthorized = errors.New("認証されていません")
	// ErrTimeout はリクエストがタイムアウトしたことを表す。
	ErrTimeout = errors.New("リクエストがタイムアウトしました")
	// ErrNetwork はサーバーとの通信自体に失敗したことを表す。
	ErrNetwork = errors.New("サーバーとの通信に失敗しました")
)

// Error は2xx以外のステータスコードを受け取った場合のエラー。
type Error struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Message はレスポンスボディから取り出したメッセージ。取り出せない場合は空。
	Message string
	// Body はレスポンスボディそのもの。
	Body []byte
}

// Error はerrorインターフェースを満たす。
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTPエラー: status=%d, message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.StatusCode, string(e.Body))
}

// Is は401のErrorをErrUnauthorizedとして扱えるようにする。
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// newError はレスポンスボディからメッセージを取り出してErrorを生成する。
// バックエンドは {"message": "..."} を返すが、ミドルウェア由来の {"error": "..."} にも対応する。
func newError(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	return &Error{StatusCode: status, Message: msg, Body: body}
}

// ErrorKind はエラーの分類。
type ErrorKind int

const (
	// KindUnknown は分類できないエラー。
	KindUnknown ErrorKind = iota
	// KindValidation はメッセージ付きの4xx（入力エラーや業務エラー）。
	KindValidation
	// KindUnauthorized は401。
	KindUnauthorized
	// KindNetwork は通信失敗またはタイムアウト。
	KindNetwork
)

// String はErrorKindの名前を返す。
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Kind はエラーを分類する。
func Kind(err error) ErrorKind {
	if errors.Is(err, ErrUnauthorized) {
		return KindUnauthorized
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrNetwork) {
		return KindNetwork
	}
	var httpErr *Error
	if errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
		return KindValidation
	}
	return KindUnknown
}

// StatusCode はエラーに含まれるHTTPステータスコードを返す。HTTPエラーでない場合は0。
func StatusCode(err error) int {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// Message はエラーから利用者向けのメッセージを取り出す。
// サーバーがメッセージを返していない場合はfallbackを返す。
func Message(err error, fallback string) string {
	var httpErr *Error
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}
