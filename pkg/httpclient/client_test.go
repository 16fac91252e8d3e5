package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testRequest はテストサーバーが受け取ったリクエスト情報を保持する構造体。
type testRequest struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// RawQuery はクエリ文字列。
	RawQuery string
	// Body はリクエストボディ。
	Body []byte
	// Headers はリクエストヘッダー。
	Headers http.Header
}

// testPayload はテスト用のリクエスト/レスポンスペイロード。
type testPayload struct {
	// Name はテスト用の名前フィールド。
	Name string `json:"name"`
	// Value はテスト用の値フィールド。
	Value int `json:"value"`
}

// memoryTokens はテスト用のTokenStore。
type memoryTokens struct {
	mu      sync.Mutex
	token   string
	evicted int
}

func (m *memoryTokens) LoadToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memoryTokens) EvictToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.evicted++
	return nil
}

// failingTokens は読み込みに失敗するTokenStore。
type failingTokens struct{}

func (failingTokens) LoadToken(_ context.Context) (string, error) {
	return "", errors.New("storage broken")
}

func (failingTokens) EvictToken(_ context.Context) error { return nil }

// recordingServer はリクエストを記録し、固定のレスポンスを返すテストサーバーを起動する。
func recordingServer(t *testing.T, status int, body string) (*httptest.Server, *testRequest) {
	t.Helper()

	var received testRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Method = r.Method
		received.Path = r.URL.Path
		received.RawQuery = r.URL.RawQuery
		received.Body, _ = io.ReadAll(r.Body)
		received.Headers = r.Header.Clone()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, &received
}

// TestNew はNew関数でクライアントが正しく生成されることを検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("クライアントが正常に生成されること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8080")
		if client == nil {
			t.Fatal("New()がnilを返した")
		}
		if client.baseURL != "http://localhost:8080" {
			t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:8080")
		}
		if client.httpClient == nil {
			t.Fatal("httpClientがnil")
		}
	})

	t.Run("タイムアウトが10秒に設定されていること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8080")
		if client.httpClient.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", client.httpClient.Timeout)
		}
	})
}

// TestPostJSON はPostJSON関数を検証する。
func TestPostJSON(t *testing.T) {
	t.Parallel()

	t.Run("ベースパス付きでPOSTしレスポンスを取得できること", func(t *testing.T) {
		t.Parallel()

		ts, received := recordingServer(t, http.StatusOK, `{"name":"response","value":200}`)
		client := New(ts.URL)
		var result testPayload

		err := client.PostJSON(context.Background(), "/auth/login", testPayload{Name: "request", Value: 100}, &result)
		if err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}

		if received.Method != http.MethodPost {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodPost)
		}
		if received.Path != "/api/auth/login" {
			t.Errorf("Path = %q, want %q", received.Path, "/api/auth/login")
		}
		var sent testPayload
		if err := json.Unmarshal(received.Body, &sent); err != nil {
			t.Fatalf("リクエストボディのパースに失敗: %v", err)
		}
		if sent.Name != "request" || sent.Value != 100 {
			t.Errorf("sent = %+v", sent)
		}
		if got := received.Headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}
		if got := received.Headers.Get("X-Request-ID"); got == "" {
			t.Error("X-Request-IDヘッダーが設定されていない")
		}
		if result.Name != "response" || result.Value != 200 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("サーバーが400を返した場合にメッセージ付きのErrorが返ること", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusBadRequest, `{"message":"Email already in use"}`)
		client := New(ts.URL)

		err := client.PostJSON(context.Background(), "/auth/register", testPayload{}, nil)
		var httpErr *Error
		if !errors.As(err, &httpErr) {
			t.Fatalf("err = %v, want *Error", err)
		}
		if httpErr.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, http.StatusBadRequest)
		}
		if httpErr.Message != "Email already in use" {
			t.Errorf("Message = %q", httpErr.Message)
		}
		if Kind(err) != KindValidation {
			t.Errorf("Kind() = %v, want %v", Kind(err), KindValidation)
		}
	})

	t.Run("サーバーが500を返した場合にエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusInternalServerError, `{"error":"internal server error"}`)
		client := New(ts.URL)

		err := client.PostJSON(context.Background(), "/recipes", testPayload{}, nil)
		if err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
		if Kind(err) != KindUnknown {
			t.Errorf("Kind() = %v, want %v", Kind(err), KindUnknown)
		}
		if got := Message(err, "fallback"); got != "internal server error" {
			t.Errorf("Message() = %q", got)
		}
	})

	t.Run("レスポンスボディが空でもエラーにならないこと", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusOK, "")
		client := New(ts.URL)
		var result testPayload

		if err := client.PostJSON(context.Background(), "/recipes/1/favorite", nil, &result); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
	})

	t.Run("シリアライズできないボディでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusOK, `{}`)
		client := New(ts.URL)

		if err := client.PostJSON(context.Background(), "/recipes", make(chan int), nil); err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("キャンセルされたコンテキストで通信エラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusOK, `{}`)
		client := New(ts.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := client.PostJSON(ctx, "/recipes", testPayload{}, nil)
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("err = %v, want ErrNetwork", err)
		}
	})
}

// TestDo はクエリ付きリクエストと各動詞を検証する。
func TestDo(t *testing.T) {
	t.Parallel()

	t.Run("クエリパラメータが付与されること", func(t *testing.T) {
		t.Parallel()

		ts, received := recordingServer(t, http.StatusOK, `{}`)
		client := New(ts.URL)

		query := map[string][]string{"page": {"0"}, "size": {"12"}}
		if err := client.Do(context.Background(), http.MethodGet, "/recipes/user", query, nil, nil); err != nil {
			t.Fatalf("Do()でエラーが発生: %v", err)
		}
		if received.RawQuery != "page=0&size=12" {
			t.Errorf("RawQuery = %q, want %q", received.RawQuery, "page=0&size=12")
		}
	})

	t.Run("PUTとDELETEが正しいメソッドで送信されること", func(t *testing.T) {
		t.Parallel()

		ts, received := recordingServer(t, http.StatusOK, `{}`)
		client := New(ts.URL)
		ctx := context.Background()

		if err := client.PutJSON(ctx, "/users/me", testPayload{Name: "a"}, nil); err != nil {
			t.Fatalf("PutJSON()でエラーが発生: %v", err)
		}
		if received.Method != http.MethodPut {
			t.Errorf("Method = %q, want PUT", received.Method)
		}
		if err := client.Delete(ctx, "/reviews/1", nil); err != nil {
			t.Fatalf("Delete()でエラーが発生: %v", err)
		}
		if received.Method != http.MethodDelete || received.Path != "/api/reviews/1" {
			t.Errorf("received = %s %s", received.Method, received.Path)
		}
	})

	t.Run("不正なJSONレスポンスでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusOK, `{invalid json}`)
		client := New(ts.URL)
		var result testPayload

		if err := client.GetJSON(context.Background(), "/users/me", &result); err == nil {
			t.Fatal("GetJSON()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("接続できないサーバーに対して通信エラーが返ること", func(t *testing.T) {
		t.Parallel()

		client := New("http://127.0.0.1:1")
		err := client.GetJSON(context.Background(), "/users/me", nil)
		if Kind(err) != KindNetwork {
			t.Fatalf("Kind() = %v, want %v (err=%v)", Kind(err), KindNetwork, err)
		}
	})

	t.Run("タイムアウトを超えるとErrTimeoutが返ること", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(ts.Close)
		t.Cleanup(func() { close(release) })

		client := New(ts.URL, WithTimeout(50*time.Millisecond))
		err := client.GetJSON(context.Background(), "/recipes/trending", nil)
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("err = %v, want ErrTimeout", err)
		}
	})
}

// TestAuthorization はトークンの付与と401時の処理を検証する。
func TestAuthorization(t *testing.T) {
	t.Parallel()

	t.Run("保存済みトークンがBearerとして付与されること", func(t *testing.T) {
		t.Parallel()

		ts, received := recordingServer(t, http.StatusOK, `{}`)
		client := New(ts.URL, WithTokenStore(&memoryTokens{token: "T1"}))

		if err := client.GetJSON(context.Background(), "/users/me", nil); err != nil {
			t.Fatalf("GetJSON()でエラーが発生: %v", err)
		}
		if got := received.Headers.Get("Authorization"); got != "Bearer T1" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer T1")
		}
	})

	t.Run("トークンがない場合はAuthorizationヘッダーを付与しないこと", func(t *testing.T) {
		t.Parallel()

		ts, received := recordingServer(t, http.StatusOK, `{}`)
		client := New(ts.URL, WithTokenStore(&memoryTokens{}))

		if err := client.GetJSON(context.Background(), "/recipes/trending", nil); err != nil {
			t.Fatalf("GetJSON()でエラーが発生: %v", err)
		}
		if _, ok := received.Headers["Authorization"]; ok {
			t.Errorf("Authorizationヘッダーが付与されている: %q", received.Headers.Get("Authorization"))
		}
	})

	t.Run("トークンの読み込みに失敗した場合は送信しないこと", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
		}))
		t.Cleanup(ts.Close)
		client := New(ts.URL, WithTokenStore(failingTokens{}))

		if err := client.GetJSON(context.Background(), "/users/me", nil); err == nil {
			t.Fatal("GetJSON()がエラーを返すべきだが、nilが返った")
		}
		if calls.Load() != 0 {
			t.Errorf("サーバー呼び出し回数 = %d, want 0", calls.Load())
		}
	})

	t.Run("401受信時にトークンを破棄しハンドラを呼び出すこと", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusUnauthorized, `{"error":"トークンが無効です"}`)
		tokens := &memoryTokens{token: "expired"}
		var notified atomic.Int32
		client := New(ts.URL,
			WithTokenStore(tokens),
			WithUnauthorizedHandler(UnauthorizedFunc(func(context.Context) { notified.Add(1) })),
		)

		err := client.GetJSON(context.Background(), "/recipes/user", nil)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
		if Kind(err) != KindUnauthorized {
			t.Errorf("Kind() = %v, want %v", Kind(err), KindUnauthorized)
		}
		if StatusCode(err) != http.StatusUnauthorized {
			t.Errorf("StatusCode() = %d, want 401", StatusCode(err))
		}
		if tokens.token != "" || tokens.evicted != 1 {
			t.Errorf("token = %q, evicted = %d", tokens.token, tokens.evicted)
		}
		if notified.Load() != 1 {
			t.Errorf("ハンドラ呼び出し回数 = %d, want 1", notified.Load())
		}
	})

	t.Run("401以外のエラーではハンドラを呼び出さないこと", func(t *testing.T) {
		t.Parallel()

		ts, _ := recordingServer(t, http.StatusForbidden, `{"message":"forbidden"}`)
		tokens := &memoryTokens{token: "T1"}
		var notified atomic.Int32
		client := New(ts.URL, WithTokenStore(tokens))
		client.SetUnauthorizedHandler(UnauthorizedFunc(func(context.Context) { notified.Add(1) }))

		if err := client.GetJSON(context.Background(), "/recipes/1", nil); err == nil {
			t.Fatal("GetJSON()がエラーを返すべきだが、nilが返った")
		}
		if tokens.token != "T1" {
			t.Errorf("token = %q, want %q", tokens.token, "T1")
		}
		if notified.Load() != 0 {
			t.Errorf("ハンドラ呼び出し回数 = %d, want 0", notified.Load())
		}
	})
}

// TestMessage はエラーメッセージの取り出しを検証する。
func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "messageフィールドを優先すること", err: newError(400, []byte(`{"message":"bad","error":"x"}`)), want: "bad"},
		{name: "errorフィールドを使うこと", err: newError(400, []byte(`{"error":"x"}`)), want: "x"},
		{name: "JSONでない場合はfallbackを返すこと", err: newError(502, []byte(`<html>`)), want: "fallback"},
		{name: "HTTPエラーでない場合はfallbackを返すこと", err: ErrTimeout, want: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Message(tt.err, "fallback"); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
