package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nao1215/kooking/pkg/logs"
)

const (
	// BasePath はすべてのAPI呼び出しに付与されるパスのプレフィックス。
	BasePath = "/api"
	// DefaultTimeout はリクエスト全体のタイムアウト。
	DefaultTimeout = 10 * time.Second
	// headerRequestID はリクエストごとに付与する識別子のヘッダー。
	headerRequestID = "X-Request-ID"
)

// TokenStore は認証トークンの保存先。
// リクエスト送信時に読み出され、401受信時に削除される。
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	EvictToken(ctx context.Context) error
}

// UnauthorizedHandler は401を受け取った際に呼び出される。
// 画面遷移などの関心事をHTTP層の外に置くために注入する。
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context)
}

// UnauthorizedFunc は関数をUnauthorizedHandlerとして扱うためのアダプタ。
type UnauthorizedFunc func(ctx context.Context)

// HandleUnauthorized はf(ctx)を呼び出す。
func (f UnauthorizedFunc) HandleUnauthorized(ctx context.Context) { f(ctx) }

// Client はバックエンドAPIへのすべての通信を担うHTTPクライアント。
// トークンの付与と401時のトークン破棄を一か所で行う。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL はバックエンドのベースURL（BasePathを含まない）。
	baseURL string
	// tokens はトークンの保存先。nilの場合は常に未認証で送信する。
	tokens TokenStore
	// onUnauthorized は401受信時の通知先。
	onUnauthorized UnauthorizedHandler
}

// Option はClientの設定を変更する。
type Option func(*Client)

// WithTokenStore はトークンの保存先を設定する。
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler は401受信時のハンドラを設定する。
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// WithTimeout はタイムアウトを変更する。主にテストで使用する。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTransport は下位のRoundTripperを差し替える。
// 差し替えたTransportもOpenTelemetryで計装される。
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = otelhttp.NewTransport(rt) }
}

// New は新しいAPIクライアントを生成する。
// baseURLにはバックエンドのオリジン（例: "http://localhost:8080"）を指定する。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler は生成後に401受信時のハンドラを設定する。
// ハンドラがクライアントに依存する場合の循環を解くために使用する。
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.onUnauthorized = h
}

// GetJSON は指定パスにGETリクエストを送信し、レスポンスをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, nil, result)
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
func (c *Client) PostJSON(ctx context.Context, path string, body any, result any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, result)
}

// PutJSON は指定パスにJSONボディでPUTリクエストを送信する。
func (c *Client) PutJSON(ctx context.Context, path string, body any, result any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, result)
}

// Delete は指定パスにDELETEリクエストを送信する。
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, result)
}

// Do はJSON形式のHTTPリクエストを実行する共通処理。
// queryが空でなければクエリ文字列として付与する。resultがnilまたは
// レスポンスボディが空の場合はデシリアライズしない。
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	target := c.baseURL + BasePath + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	if err := c.prepare(ctx, req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: レスポンスの読み取りに失敗: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := newError(resp.StatusCode, respBody)
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(ctx)
		}
		return httpErr
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return nil
}

// prepare は送信前のリクエストにヘッダーを設定する。
// 保存済みトークンがあればBearerトークンとして付与する。
func (c *Client) prepare(ctx context.Context, req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())

	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.LoadToken(ctx)
	if err != nil {
		return fmt.Errorf("トークンの読み込みに失敗: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// handleUnauthorized は保存済みトークンを破棄し、ハンドラに通知する。
// どのAPI呼び出しで401が返っても同じ処理になる。
func (c *Client) handleUnauthorized(ctx context.Context) {
	logs.Printv("[HTTPClient] 401を受信したため保存済みトークンを破棄します")
	if c.tokens != nil {
		if err := c.tokens.EvictToken(ctx); err != nil {
			logs.Printf("[HTTPClient] トークンの破棄に失敗: %v", err)
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized.HandleUnauthorized(ctx)
	}
}

// classifyTransportError は送信時のエラーをタイムアウトか通信失敗に分類する。
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
