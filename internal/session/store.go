package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nao1215/kooking/internal/api"
	"github.com/nao1215/kooking/pkg/httpclient"
	"github.com/nao1215/kooking/pkg/logs"
	"github.com/nao1215/kooking/pkg/storage"
)

// 画面表示用のエラーメッセージ。サーバーがメッセージを返さない場合に使う。
const (
	msgLoginFailed    = "ログインに失敗しました"
	msgRegisterFailed = "ユーザー登録に失敗しました"
	msgFetchFailed    = "ユーザー情報の取得に失敗しました"
)

// ErrNoToken はログインレスポンスにトークンが含まれていなかったことを表す。
var ErrNoToken = errors.New("ログインレスポンスにトークンが含まれていません")

// State はセッションの状態。
type State int

const (
	// Unauthenticated はトークンを持たない状態。
	Unauthenticated State = iota
	// Authenticating はログイン・登録・プロフィール取得のいずれかが処理中の状態。
	Authenticating
	// Authenticated はトークンとプロフィールの両方を持つ状態。
	Authenticated
	// AuthenticatedNoProfile はトークンだけを持ち、プロフィール未取得の状態。
	AuthenticatedNoProfile
)

// String は状態の名前を返す。
func (s State) String() string {
	switch s {
	case Authenticating:
		return "Authenticating"
	case Authenticated:
		return "Authenticated"
	case AuthenticatedNoProfile:
		return "AuthenticatedNoProfile"
	default:
		return "Unauthenticated"
	}
}

// Credentials はログインに使う認証情報。
type Credentials struct {
	Email    string
	Password string
}

// AuthAPI はStoreが呼び出すバックエンドAPI。*api.Clientが満たす。
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.User, error)
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Session はある時点のセッション内容のコピー。
type Session struct {
	Token     string
	User      *api.User
	Loading   bool
	LastError string
}

// persisted は永続ストアにまとめて保存するセッションオブジェクト。
type persisted struct {
	Token string    `json:"token"`
	User  *api.User `json:"user"`
}

// Store は認証セッションを保持する。
type Store struct {
	// api はバックエンドAPI。
	api AuthAPI
	// durable はプロセスをまたいで残る永続ストア。
	durable storage.Storage
	// scoped はプロセス内でのみ有効なストア。
	scoped storage.Storage

	// flow はセッションを変更するネットワーク処理を直列化する。
	flow sync.Mutex
	// initialized はInitが実行済みかどうか。flowで保護する。
	initialized bool

	// mu は以下のフィールドを保護する。
	mu        sync.RWMutex
	token     string
	user      *api.User
	inflight  int
	lastError string
}

// New は永続ストアからセッションを復元してStoreを生成する。
func New(ctx context.Context, authAPI AuthAPI, durable, scoped storage.Storage) (*Store, error) {
	s := &Store{api: authAPI, durable: durable, scoped: scoped}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload は永続ストアの内容でメモリ上のセッションを置き換える。
// HTTPクライアントが401でトークンを破棄した後、保存内容と状態を揃えるために使う。
// トークンとプロフィールは同じトークンで保存されている場合のみ組として復元する。
func (s *Store) Reload(ctx context.Context) error {
	token, _, err := s.durable.Get(ctx, storage.KeyToken)
	if err != nil {
		return fmt.Errorf("トークンの復元に失敗: %w", err)
	}

	var user *api.User
	if raw, ok, err := s.durable.Get(ctx, storage.KeyAuth); err != nil {
		return fmt.Errorf("セッションの復元に失敗: %w", err)
	} else if ok && token != "" {
		var p persisted
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			logs.Printf("[Session] 保存されたセッションが壊れているため無視します: %v", err)
		} else if p.Token == token {
			user = p.User
		}
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Init は起動時に一度だけ呼び出す。トークンがありプロフィール未取得の場合に
// プロフィールを取得する。2回目以降の呼び出しは何もしない。
// プロフィール取得の失敗はFetchCurrentUserと同じく吸収し、ログに残すだけにする。
func (s *Store) Init(ctx context.Context) {
	s.flow.Lock()
	defer s.flow.Unlock()

	if s.initialized {
		return
	}
	s.initialized = true

	s.mu.RLock()
	needsProfile := s.token != "" && s.user == nil
	s.mu.RUnlock()
	if !needsProfile {
		return
	}
	if err := s.fetchCurrentUser(ctx); err != nil {
		logs.Printf("[Session] 起動時のユーザー情報取得に失敗: %v", err)
	}
}

// Login はログインしてトークンを保存し、続けてプロフィールを取得する。
// 失敗した場合はエラーメッセージを記録してエラーを返す。その場合トークンは
// 呼び出し前の状態のまま変わらない。
// プロフィール取得の失敗は吸収されるため、戻り値のユーザーはnilになりうる。
func (s *Store) Login(ctx context.Context, cred Credentials) (*api.User, error) {
	s.flow.Lock()
	defer s.flow.Unlock()

	s.begin(true)
	defer s.end()

	logs.Printv("[Session] ログインを試行します: %s", cred.Email)
	resp, err := s.api.Login(ctx, cred.Email, cred.Password)
	if err != nil {
		s.fail(httpclient.Message(err, msgLoginFailed))
		return nil, fmt.Errorf("ログインに失敗: %w", err)
	}
	if resp.Token == "" {
		s.fail(msgLoginFailed)
		return nil, ErrNoToken
	}

	if err := s.storeToken(ctx, resp.Token); err != nil {
		s.fail(msgLoginFailed)
		return nil, err
	}
	logs.Printv("[Session] ログインに成功しました")

	if err := s.fetchCurrentUser(ctx); err != nil {
		logs.Printf("[Session] ログイン後のユーザー情報取得に失敗: %v", err)
	}
	return s.User(), nil
}

// Register はユーザーを登録し、返されたユーザーを保持する。トークンは変更しない。
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	s.flow.Lock()
	defer s.flow.Unlock()

	s.begin(true)
	defer s.end()

	user, err := s.api.Register(ctx, req)
	if err != nil {
		s.fail(httpclient.Message(err, msgRegisterFailed))
		return nil, fmt.Errorf("ユーザー登録に失敗: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// FetchCurrentUser はプロフィールを取得して保持する。トークンがなければ何もしない。
// 401の場合はトークンが失効しているとみなしてログアウトし、nilを返す。
// それ以外の失敗はメッセージを記録したうえでエラーとして返すが、致命的ではない。
func (s *Store) FetchCurrentUser(ctx context.Context) error {
	s.flow.Lock()
	defer s.flow.Unlock()
	return s.fetchCurrentUser(ctx)
}

// fetchCurrentUser はflowを保持した状態で呼び出す。
func (s *Store) fetchCurrentUser(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return nil
	}

	s.begin(false)
	defer s.end()

	logs.Printv("[Session] ユーザー情報を取得します")
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.fail(httpclient.Message(err, msgFetchFailed))
		if httpclient.Kind(err) == httpclient.KindUnauthorized {
			logs.Printv("[Session] トークンが無効なためログアウトします")
			s.Logout(ctx)
			return nil
		}
		return fmt.Errorf("ユーザー情報の取得に失敗: %w", err)
	}

	s.mu.Lock()
	if s.token != token {
		// 取得中にログアウトまたは別トークンでのログインが起きた
		s.mu.Unlock()
		return nil
	}
	s.user = user
	s.mu.Unlock()

	if err := s.persist(ctx, token, user); err != nil {
		logs.Printf("[Session] セッションの保存に失敗: %v", err)
	}
	return nil
}

// Logout はトークン・プロフィール・エラーを消去し、保存済みトークンを削除する。
// 通信は行わず、常に成功する。ストアの削除に失敗した場合はログに残す。
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.lastError = ""
	s.mu.Unlock()

	for _, rm := range []struct {
		kv  storage.Storage
		key string
	}{
		{s.durable, storage.KeyToken},
		{s.durable, storage.KeyAuth},
		{s.scoped, storage.KeyToken},
	} {
		if err := rm.kv.Remove(ctx, rm.key); err != nil {
			logs.Printf("[Session] 保存済みセッションの削除に失敗: key=%s: %v", rm.key, err)
		}
	}
}

// storeToken はトークンを永続化してからメモリ上に設定する。
// 永続化に失敗した場合はメモリ上のトークンを変更しない。
func (s *Store) storeToken(ctx context.Context, token string) error {
	if err := s.durable.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("トークンの保存に失敗: %w", err)
	}
	if err := s.scoped.Set(ctx, storage.KeyToken, token); err != nil {
		logs.Printf("[Session] セッションスコープへのトークン保存に失敗: %v", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()

	if err := s.persist(ctx, token, nil); err != nil {
		logs.Printf("[Session] セッションの保存に失敗: %v", err)
	}
	return nil
}

// persist はトークンとプロフィールを1つのオブジェクトとして保存する。
func (s *Store) persist(ctx context.Context, token string, user *api.User) error {
	raw, err := json.Marshal(persisted{Token: token, User: user})
	if err != nil {
		return err
	}
	return s.durable.Set(ctx, storage.KeyAuth, string(raw))
}

func (s *Store) begin(clearError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	if clearError {
		s.lastError = ""
	}
}

func (s *Store) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// IsAuthenticated はトークンを保持しているかどうかを返す。
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token は保持しているトークンを返す。
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User は保持しているプロフィールのコピーを返す。未取得の場合はnil。
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserFullName は「名 姓」の形式の表示名を返す。プロフィール未取得の場合は空文字列。
func (s *Store) UserFullName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.FirstName + " " + s.user.LastName
}

// Loading は処理中の操作があるかどうかを返す。
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// LastError は直近の失敗で記録されたメッセージを返す。
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// State は現在の状態を返す。
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.inflight > 0:
		return Authenticating
	case s.token == "":
		return Unauthenticated
	case s.user == nil:
		return AuthenticatedNoProfile
	default:
		return Authenticated
	}
}

// Snapshot は現在のセッション内容のコピーを返す。
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var user *api.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Session{
		Token:     s.token,
		User:      user,
		Loading:   s.inflight > 0,
		LastError: s.lastError,
	}
}
