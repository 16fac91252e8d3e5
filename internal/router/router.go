package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/nao1215/kooking/pkg/logs"
)

// maxRedirects はガードによる振り替えの上限。
const maxRedirects = 5

var (
	// ErrNotFound はパスに一致するルートがないことを表す。
	ErrNotFound = errors.New("ルートが見つかりません")
	// ErrTooManyRedirects はガードの振り替えが循環したことを表す。
	ErrTooManyRedirects = errors.New("リダイレクトが多すぎます")
)

// Session はガードが参照する認証状態。*session.Storeが満たす。
type Session interface {
	IsAuthenticated() bool
}

// Resolution は遷移の結果。
type Resolution struct {
	// Route は最終的に表示するルート。
	Route Route
	// Params はパスパラメータ。
	Params map[string]string
	// Query はクエリパラメータ。
	Query url.Values
	// Path は最終的なパス。
	Path string
	// RedirectedFrom はガードで振り替えられた場合の元のパス。
	RedirectedFrom string
}

// Redirected はガードによって振り替えられたかどうかを返す。
func (r Resolution) Redirected() bool {
	return r.RedirectedFrom != ""
}

// Router はパスをルートに解決し、現在位置を保持する。
type Router struct {
	session Session
	mux     *mux.Router
	routes  map[string]Route

	// mu は以下のフィールドを保護し、遷移を直列化する。
	mu      sync.Mutex
	current string
	history []string
}

// New はルーターを生成する。
func New(session Session, routes []Route) *Router {
	m := mux.NewRouter()
	byName := make(map[string]Route, len(routes))
	for _, rt := range routes {
		m.NewRoute().Name(rt.Name).Path(rt.Path)
		byName[rt.Name] = rt
	}
	return &Router{session: session, mux: m, routes: byName}
}

// Navigate はpathへ遷移する。ガードにより別のパスへ振り替えられる場合がある。
// 一致するルートがない場合はErrNotFoundを返し、現在位置は変わらない。
func (r *Router) Navigate(ctx context.Context, path string) (Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.navigate(ctx, path)
}

// HandleUnauthorized は401を受け取ったときに呼び出す。
// 現在位置が /login でなければ /login へ遷移する。並行して呼ばれても遷移は一度だけ。
func (r *Router) HandleUnauthorized(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == PathLogin {
		return
	}
	logs.Printv("[Router] 認証が切れたためログイン画面へ遷移します: from=%s", r.current)
	// セッションがまだ認証済みを返していてもゲスト用ガードは通さない。
	res, err := r.resolve(ctx, PathLogin)
	if err != nil {
		logs.Printf("[Router] ログイン画面への遷移に失敗: %v", err)
		return
	}
	r.current = res.Path
	r.history = append(r.history, res.Path)
}

// Current は現在位置のパスを返す。まだ遷移していない場合は空文字列。
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History はこれまでに遷移したパスを古い順に返す。
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// URL はルート名とパラメータの組からパスを組み立てる。
func (r *Router) URL(name string, pairs ...string) (string, error) {
	rt := r.mux.Get(name)
	if rt == nil {
		return "", fmt.Errorf("%w: name=%s", ErrNotFound, name)
	}
	u, err := rt.URL(pairs...)
	if err != nil {
		return "", fmt.Errorf("URLの組み立てに失敗: %w", err)
	}
	return u.Path, nil
}

// navigate はmuを保持した状態で呼び出す。
func (r *Router) navigate(ctx context.Context, rawPath string) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	var redirectedFrom string
	target := rawPath
	for range maxRedirects {
		res, err := r.resolve(ctx, target)
		if err != nil {
			return Resolution{}, err
		}

		next := r.guard(res.Route)
		if next == "" {
			res.RedirectedFrom = redirectedFrom
			r.current = res.Path
			r.history = append(r.history, res.Path)
			logs.Printv("[Router] 遷移: %s (%s)", res.Path, res.Route.Name)
			return res, nil
		}

		logs.Printv("[Router] ガードにより振り替えます: %s -> %s", res.Path, next)
		if redirectedFrom == "" {
			redirectedFrom = res.Path
		}
		target = next
	}
	return Resolution{}, fmt.Errorf("%w: %s", ErrTooManyRedirects, rawPath)
}

// guard は遷移先を振り替える必要がある場合にそのパスを返す。
func (r *Router) guard(rt Route) string {
	authenticated := r.session.IsAuthenticated()
	switch {
	case rt.RequiresAuth && !authenticated:
		return PathLogin
	case rt.RequiresGuest && authenticated:
		return PathDashboard
	default:
		return ""
	}
}

// resolve はパスをルートに解決する。
// パスの大文字小文字と末尾のスラッシュは区別しない。
func (r *Router) resolve(ctx context.Context, rawPath string) (Resolution, error) {
	u, err := url.Parse(rawPath)
	if err != nil {
		return Resolution{}, fmt.Errorf("パスの解析に失敗: %w", err)
	}
	path := u.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	for _, candidate := range []string{path, strings.ToLower(path)} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
		if err != nil {
			return Resolution{}, fmt.Errorf("パスの解析に失敗: %w", err)
		}
		var match mux.RouteMatch
		if !r.mux.Match(req, &match) || match.Route == nil {
			continue
		}
		return Resolution{
			Route:  r.routes[match.Route.GetName()],
			Params: match.Vars,
			Query:  u.Query(),
			Path:   candidate,
		}, nil
	}
	return Resolution{}, fmt.Errorf("%w: %s", ErrNotFound, rawPath)
}
