package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nao1215/kooking/internal/api"
	"github.com/nao1215/kooking/pkg/httpclient"
	"github.com/nao1215/kooking/pkg/storage"
)

// fakeAuthAPI はテスト用のAuthAPI。応答を差し替えられ、呼び出し回数を記録する。
type fakeAuthAPI struct {
	mu sync.Mutex

	loginToken string
	loginErr   error
	user       *api.User
	userErr    error
	registered *api.User
	regErr     error

	loginCalls int
	userCalls  int
}

func (f *fakeAuthAPI) Login(_ context.Context, _, _ string) (*api.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.LoginResponse{Token: f.loginToken}, nil
}

func (f *fakeAuthAPI) Register(_ context.Context, _ api.RegisterRequest) (*api.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.registered, nil
}

func (f *fakeAuthAPI) CurrentUser(_ context.Context) (*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCalls++
	if f.userErr != nil {
		return nil, f.userErr
	}
	u := *f.user
	return &u, nil
}

func (f *fakeAuthAPI) calls() (login, user int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.userCalls
}

// failingStorage はSetが常に失敗するStorage。
type failingStorage struct {
	storage.Storage
}

func (failingStorage) Set(_ context.Context, _, _ string) error {
	return errors.New("disk full")
}

var userA = &api.User{ID: "u1", FirstName: "A", LastName: "B", Email: "a@b.com"}

func newStore(t *testing.T, fake *fakeAuthAPI, durable storage.Storage) *Store {
	t.Helper()

	if durable == nil {
		durable = storage.NewMemory()
	}
	s, err := New(context.Background(), fake, durable, storage.NewMemory())
	if err != nil {
		t.Fatalf("New()でエラーが発生: %v", err)
	}
	return s
}

func persistedToken(t *testing.T, kv storage.Storage) (string, bool) {
	t.Helper()

	v, ok, err := kv.Get(context.Background(), storage.KeyToken)
	if err != nil {
		t.Fatalf("Get()でエラーが発生: %v", err)
	}
	return v, ok
}

// TestLogin はLoginを検証する。
func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("トークンを保存してからプロフィールを取得すること", func(t *testing.T) {
		t.Parallel()

		durable := storage.NewMemory()
		fake := &fakeAuthAPI{loginToken: "T1", user: userA}
		s := newStore(t, fake, durable)

		user, err := s.Login(context.Background(), Credentials{Email: "a@b.com", Password: "x"})
		if err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}
		if s.Token() != "T1" {
			t.Errorf("Token() = %q, want %q", s.Token(), "T1")
		}
		if user == nil || user.FirstName != "A" {
			t.Errorf("user = %+v", user)
		}
		if got, _ := persistedToken(t, durable); got != "T1" {
			t.Errorf("保存されたトークン = %q, want %q", got, "T1")
		}
		if s.State() != Authenticated {
			t.Errorf("State() = %v, want %v", s.State(), Authenticated)
		}
		if s.UserFullName() != "A B" {
			t.Errorf("UserFullName() = %q", s.UserFullName())
		}
		if s.Loading() {
			t.Error("処理完了後もLoading()がtrue")
		}
	})

	t.Run("ログインに失敗した場合はトークンを設定せずメッセージを記録すること", func(t *testing.T) {
		t.Parallel()

		durable := storage.NewMemory()
		fake := &fakeAuthAPI{loginErr: &httpclient.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}}
		s := newStore(t, fake, durable)

		_, err := s.Login(context.Background(), Credentials{Email: "a@b.com", Password: "bad"})
		if !errors.Is(err, httpclient.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
		if s.IsAuthenticated() {
			t.Error("失敗後にIsAuthenticated()がtrue")
		}
		if _, ok := persistedToken(t, durable); ok {
			t.Error("失敗後にトークンが保存されている")
		}
		if s.LastError() != "Invalid email or password" {
			t.Errorf("LastError() = %q", s.LastError())
		}
	})

	t.Run("サーバーがメッセージを返さない場合は既定のメッセージを記録すること", func(t *testing.T) {
		t.Parallel()

		fake := &fakeAuthAPI{loginErr: httpclient.ErrNetwork}
		s := newStore(t, fake, nil)

		if _, err := s.Login(context.Background(), Credentials{}); err == nil {
			t.Fatal("エラーが返らない")
		}
		if s.LastError() != msgLoginFailed {
			t.Errorf("LastError() = %q, want %q", s.LastError(), msgLoginFailed)
		}
	})

	t.Run("トークンのないレスポンスはErrNoTokenになること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, &fakeAuthAPI{}, nil)
		if _, err := s.Login(context.Background(), Credentials{}); !errors.Is(err, ErrNoToken) {
			t.Errorf("err = %v, want ErrNoToken", err)
		}
		if s.IsAuthenticated() {
			t.Error("IsAuthenticated()がtrue")
		}
	})

	t.Run("トークンの保存に失敗した場合はメモリ上も未認証のままであること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, &fakeAuthAPI{loginToken: "T1", user: userA}, failingStorage{storage.NewMemory()})
		if _, err := s.Login(context.Background(), Credentials{}); err == nil {
			t.Fatal("エラーが返らない")
		}
		if s.IsAuthenticated() {
			t.Error("IsAuthenticated()がtrue")
		}
	})

	t.Run("プロフィール取得の失敗は吸収されユーザーがnilになること", func(t *testing.T) {
		t.Parallel()

		fake := &fakeAuthAPI{loginToken: "T1", userErr: &httpclient.Error{StatusCode: http.StatusInternalServerError}}
		s := newStore(t, fake, nil)

		user, err := s.Login(context.Background(), Credentials{})
		if err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}
		if user != nil {
			t.Errorf("user = %+v, want nil", user)
		}
		if s.State() != AuthenticatedNoProfile {
			t.Errorf("State() = %v, want %v", s.State(), AuthenticatedNoProfile)
		}
		if s.LastError() != msgFetchFailed {
			t.Errorf("LastError() = %q", s.LastError())
		}
	})
}

// TestRegister はRegisterを検証する。
func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("返されたユーザーを保持しトークンは変更しないこと", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, &fakeAuthAPI{registered: userA}, nil)
		user, err := s.Register(context.Background(), api.RegisterRequest{Email: "a@b.com"})
		if err != nil {
			t.Fatalf("Register()でエラーが発生: %v", err)
		}
		if user.ID != "u1" || s.User().ID != "u1" {
			t.Errorf("user = %+v", user)
		}
		if s.IsAuthenticated() {
			t.Error("登録でトークンが設定された")
		}
	})

	t.Run("失敗時にサーバーのメッセージを記録すること", func(t *testing.T) {
		t.Parallel()

		fake := &fakeAuthAPI{regErr: &httpclient.Error{StatusCode: http.StatusBadRequest, Message: "Email is already registered"}}
		s := newStore(t, fake, nil)
		if _, err := s.Register(context.Background(), api.RegisterRequest{}); httpclient.Kind(err) != httpclient.KindValidation {
			t.Errorf("Kind = %v, want %v", httpclient.Kind(err), httpclient.KindValidation)
		}
		if s.LastError() != "Email is already registered" {
			t.Errorf("LastError() = %q", s.LastError())
		}
	})
}

// TestFetchCurrentUser はFetchCurrentUserを検証する。
func TestFetchCurrentUser(t *testing.T) {
	t.Parallel()

	t.Run("トークンがない場合は通信しないこと", func(t *testing.T) {
		t.Parallel()

		fake := &fakeAuthAPI{user: userA}
		s := newStore(t, fake, nil)
		if err := s.FetchCurrentUser(context.Background()); err != nil {
			t.Fatalf("FetchCurrentUser()でエラーが発生: %v", err)
		}
		if _, n := fake.calls(); n != 0 {
			t.Errorf("CurrentUserの呼び出し回数 = %d, want 0", n)
		}
	})

	t.Run("401の場合はログアウトしてnilを返すこと", func(t *testing.T) {
		t.Parallel()

		durable := storage.NewMemory()
		ctx := context.Background()
		if err := durable.Set(ctx, storage.KeyToken, "T1"); err != nil {
			t.Fatal(err)
		}
		fake := &fakeAuthAPI{userErr: &httpclient.Error{StatusCode: http.StatusUnauthorized}}
		s := newStore(t, fake, durable)

		if err := s.FetchCurrentUser(ctx); err != nil {
			t.Errorf("FetchCurrentUser() = %v, want nil", err)
		}
		if s.IsAuthenticated() {
			t.Error("401後もIsAuthenticated()がtrue")
		}
		if _, ok := persistedToken(t, durable); ok {
			t.Error("401後もトークンが保存されている")
		}
	})

	t.Run("その他の失敗はエラーを返しトークンを保持すること", func(t *testing.T) {
		t.Parallel()

		durable := storage.NewMemory()
		ctx := context.Background()
		if err := durable.Set(ctx, storage.KeyToken, "T1"); err != nil {
			t.Fatal(err)
		}
		fake := &fakeAuthAPI{userErr: &httpclient.Error{StatusCode: http.StatusServiceUnavailable, Message: "maintenance"}}
		s := newStore(t, fake, durable)

		if err := s.FetchCurrentUser(ctx); err == nil {
			t.Error("エラーが返らない")
		}
		if s.Token() != "T1" {
			t.Errorf("Token() = %q, want T1", s.Token())
		}
		if s.LastError() != "maintenance" {
			t.Errorf("LastError() = %q", s.LastError())
		}
	})
}

// TestLogout はLogoutを検証する。
func TestLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	durable := storage.NewMemory()
	scoped := storage.NewMemory()
	s, err := New(ctx, &fakeAuthAPI{loginToken: "T1", user: userA}, durable, scoped)
	if err != nil {
		t.Fatalf("New()でエラーが発生: %v", err)
	}
	if _, err := s.Login(ctx, Credentials{Email: "a@b.com", Password: "x"}); err != nil {
		t.Fatalf("Login()でエラーが発生: %v", err)
	}

	s.Logout(ctx)

	if s.IsAuthenticated() || s.User() != nil || s.LastError() != "" {
		t.Errorf("ログアウト後の状態 = %+v", s.Snapshot())
	}
	if s.State() != Unauthenticated {
		t.Errorf("State() = %v, want %v", s.State(), Unauthenticated)
	}
	for _, kv := range []struct {
		name string
		kv   storage.Storage
		key  string
	}{
		{"durable token", durable, storage.KeyToken},
		{"durable auth", durable, storage.KeyAuth},
		{"scoped token", scoped, storage.KeyToken},
	} {
		if _, ok, _ := kv.kv.Get(ctx, kv.key); ok {
			t.Errorf("%s が残っている", kv.name)
		}
	}
}

// TestInit はInitを検証する。
func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("保存済みトークンがありユーザー未取得なら一度だけ取得すること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		durable := storage.NewMemory()
		if err := durable.Set(ctx, storage.KeyToken, "T1"); err != nil {
			t.Fatal(err)
		}
		fake := &fakeAuthAPI{user: userA}
		s := newStore(t, fake, durable)
		if s.State() != AuthenticatedNoProfile {
			t.Errorf("復元直後のState() = %v", s.State())
		}

		s.Init(ctx)
		s.Init(ctx)

		if _, n := fake.calls(); n != 1 {
			t.Errorf("CurrentUserの呼び出し回数 = %d, want 1", n)
		}
		if s.State() != Authenticated {
			t.Errorf("State() = %v, want %v", s.State(), Authenticated)
		}
	})

	t.Run("ユーザーが復元済みなら取得しないこと", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		durable := storage.NewMemory()
		first := newStore(t, &fakeAuthAPI{loginToken: "T1", user: userA}, durable)
		if _, err := first.Login(ctx, Credentials{}); err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}

		fake := &fakeAuthAPI{user: userA}
		s := newStore(t, fake, durable)
		s.Init(ctx)

		if _, n := fake.calls(); n != 0 {
			t.Errorf("CurrentUserの呼び出し回数 = %d, want 0", n)
		}
		if s.User() == nil || s.User().FirstName != "A" {
			t.Errorf("User() = %+v", s.User())
		}
	})

	t.Run("トークンがなければ何もしないこと", func(t *testing.T) {
		t.Parallel()

		fake := &fakeAuthAPI{user: userA}
		s := newStore(t, fake, nil)
		s.Init(context.Background())
		if _, n := fake.calls(); n != 0 {
			t.Errorf("CurrentUserの呼び出し回数 = %d, want 0", n)
		}
	})
}

// TestReload はReloadを検証する。
func TestReload(t *testing.T) {
	t.Parallel()

	t.Run("別トークンで保存されたプロフィールは復元しないこと", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		durable := storage.NewMemory()
		s := newStore(t, &fakeAuthAPI{loginToken: "T1", user: userA}, durable)
		if _, err := s.Login(ctx, Credentials{}); err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}
		if err := durable.Set(ctx, storage.KeyToken, "T2"); err != nil {
			t.Fatal(err)
		}

		if err := s.Reload(ctx); err != nil {
			t.Fatalf("Reload()でエラーが発生: %v", err)
		}
		if s.Token() != "T2" || s.User() != nil {
			t.Errorf("snapshot = %+v", s.Snapshot())
		}
	})

	t.Run("HTTP層がトークンを破棄した後は未認証になること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		durable := storage.NewMemory()
		s := newStore(t, &fakeAuthAPI{loginToken: "T1", user: userA}, durable)
		if _, err := s.Login(ctx, Credentials{}); err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}
		if err := storage.NewTokenStore(durable).EvictToken(ctx); err != nil {
			t.Fatal(err)
		}

		if err := s.Reload(ctx); err != nil {
			t.Fatalf("Reload()でエラーが発生: %v", err)
		}
		if s.IsAuthenticated() || s.User() != nil {
			t.Errorf("snapshot = %+v", s.Snapshot())
		}
	})

	t.Run("壊れたセッションオブジェクトは無視すること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		durable := storage.NewMemory()
		_ = durable.Set(ctx, storage.KeyToken, "T1")
		_ = durable.Set(ctx, storage.KeyAuth, "{broken")

		s := newStore(t, &fakeAuthAPI{}, durable)
		if s.Token() != "T1" || s.User() != nil {
			t.Errorf("snapshot = %+v", s.Snapshot())
		}
	})
}

// TestConcurrentLogin は並行したログインが直列に処理されることを検証する。
func TestConcurrentLogin(t *testing.T) {
	t.Parallel()

	fake := &fakeAuthAPI{loginToken: "T1", user: userA}
	s := newStore(t, fake, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Login(context.Background(), Credentials{}); err != nil {
				t.Errorf("Login()でエラーが発生: %v", err)
			}
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	login, user := fake.calls()
	if login != 8 || user != 8 {
		t.Errorf("呼び出し回数 login=%d user=%d, want 8, 8", login, user)
	}
	if s.State() != Authenticated {
		t.Errorf("State() = %v, want %v", s.State(), Authenticated)
	}
}

// TestClaims はClaimsを検証する。
func TestClaims(t *testing.T) {
	t.Parallel()

	t.Run("未ログインならErrNotAuthenticatedを返すこと", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, &fakeAuthAPI{}, nil)
		if _, err := s.Claims(); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("err = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("署名を検証せずにクレームを取り出すこと", func(t *testing.T) {
		t.Parallel()

		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(exp)},
			Email:            "a@b.com",
		}).SignedString([]byte("unknown-to-client"))
		if err != nil {
			t.Fatal(err)
		}

		s := newStore(t, &fakeAuthAPI{loginToken: token, user: userA}, nil)
		if _, err := s.Login(context.Background(), Credentials{}); err != nil {
			t.Fatalf("Login()でエラーが発生: %v", err)
		}
		claims, err := s.Claims()
		if err != nil {
			t.Fatalf("Claims()でエラーが発生: %v", err)
		}
		if claims.Subject != "u1" || claims.Email != "a@b.com" || !claims.ExpiresAt.Equal(exp) {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("JWTでないトークンはエラーになること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, &fakeAuthAPI{loginToken: "T1", user: userA}, nil)
		if _, err := s.Login(context.Background(), Credentials{}); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Claims(); err == nil {
			t.Error("エラーが返らない")
		}
	})
}

// TestStateString はStateの文字列表現を検証する。
func TestStateString(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		Unauthenticated:        "Unauthenticated",
		Authenticating:         "Authenticating",
		Authenticated:          "Authenticated",
		AuthenticatedNoProfile: "AuthenticatedNoProfile",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
