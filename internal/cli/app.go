package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/howeyc/gopass"

	"github.com/nao1215/kooking/internal/api"
	"github.com/nao1215/kooking/internal/config"
	"github.com/nao1215/kooking/internal/router"
	"github.com/nao1215/kooking/internal/session"
	"github.com/nao1215/kooking/internal/telemetry"
	"github.com/nao1215/kooking/pkg/httpclient"
	"github.com/nao1215/kooking/pkg/logs"
	"github.com/nao1215/kooking/pkg/storage"
)

const serviceName = "kooking"

var (
	errNotLoggedIn    = errors.New("ログインしていません。kooking login でログインしてください")
	errSessionExpired = errors.New("セッションの有効期限が切れました。kooking login で再ログインしてください")
)

// PasswordReader は端末からパスワードを読み取る。
type PasswordReader func(prompt string) (string, error)

// Option はappの設定を変更する。
type Option func(*app)

// WithConfig は環境変数の代わりに使う設定を指定する。
func WithConfig(cfg config.Config) Option {
	return func(a *app) { a.cfg = cfg }
}

// WithPasswordReader はパスワードの読み取り方法を差し替える。
func WithPasswordReader(r PasswordReader) Option {
	return func(a *app) { a.readPassword = r }
}

// app はコマンド実行中に共有する依存関係。
type app struct {
	cfg          config.Config
	verbose      bool
	readPassword PasswordReader
	stdin        *bufio.Reader

	db       *storage.SQLite
	http     *httpclient.Client
	api      *api.Client
	session  *session.Store
	router   *router.Router
	shutdown telemetry.Shutdown
}

func newApp(opts ...Option) *app {
	a := &app{
		cfg:          config.Load(),
		readPassword: terminalPassword,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run はargsでコマンドを実行する。
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...Option) error {
	a := newApp(opts...)
	defer a.close(ctx)

	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// Execute はプロセスの引数でコマンドを実行し、失敗した場合は終了コード1で終了する。
func Execute() {
	if err := Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// open はストレージ、HTTPクライアント、セッション、ルーターを組み立て、
// セッションを初期化する。
func (a *app) open(ctx context.Context) error {
	a.shutdown = telemetry.Setup(ctx, serviceName, a.cfg.OTLPEndpoint, a.cfg.OTLPInsecure)

	path, err := a.cfg.DatabasePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("データディレクトリの作成に失敗: %w", err)
	}
	db, err := storage.OpenSQLite(ctx, path)
	if err != nil {
		return err
	}
	a.db = db
	logs.Printv("[CLI] セッションを読み込みます: %s", path)

	a.http = httpclient.New(a.cfg.APIURL, httpclient.WithTokenStore(storage.NewTokenStore(db)))
	a.api = api.New(a.http)
	a.session, err = session.New(ctx, a.api, db, storage.NewMemory())
	if err != nil {
		return err
	}
	a.router = router.New(a.session, router.Routes())
	a.http.SetUnauthorizedHandler(httpclient.UnauthorizedFunc(a.handleUnauthorized))

	a.session.Init(ctx)
	return nil
}

// handleUnauthorized はHTTPクライアントが401を受け取ったときに呼ばれる。
// クライアントが破棄したトークンをセッションに反映してからログイン画面へ遷移する。
func (a *app) handleUnauthorized(ctx context.Context) {
	if err := a.session.Reload(ctx); err != nil {
		logs.Printf("[CLI] セッションの再読み込みに失敗: %v", err)
	}
	a.router.HandleUnauthorized(ctx)
}

func (a *app) close(ctx context.Context) {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logs.Printf("[CLI] データベースのクローズに失敗: %v", err)
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			logs.Printf("[CLI] テレメトリの終了に失敗: %v", err)
		}
	}
}

// navigate は画面のパスへ遷移する。ガードで振り替えられた場合は振り替え後の結果を返す。
func (a *app) navigate(ctx context.Context, path string) (router.Resolution, error) {
	res, err := a.router.Navigate(ctx, path)
	if err != nil {
		return router.Resolution{}, fmt.Errorf("%sへの遷移に失敗: %w", path, err)
	}
	return res, nil
}

// navigateTo はルート名とパラメータからパスを組み立てて遷移する。
func (a *app) navigateTo(ctx context.Context, name string, pairs ...string) (router.Resolution, error) {
	path, err := a.router.URL(name, pairs...)
	if err != nil {
		return router.Resolution{}, err
	}
	return a.navigate(ctx, path)
}

// apiError はAPIのエラーを利用者向けのエラーに変換する。
func (a *app) apiError(err error, action string) error {
	if httpclient.Kind(err) == httpclient.KindUnauthorized {
		return errSessionExpired
	}
	return fmt.Errorf("%sに失敗しました: %s", action, httpclient.Message(err, err.Error()))
}

// readLine は標準入力から1行読み取る。
func (a *app) readLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	if a.stdin == nil {
		a.stdin = bufio.NewReader(in)
	}
	if prompt != "" {
		fmt.Fprint(out, prompt)
	}
	line, err := a.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("入力の読み取りに失敗: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func terminalPassword(prompt string) (string, error) {
	b, err := gopass.GetPasswdPrompt(prompt, true, os.Stdin, os.Stderr)
	if err != nil {
		return "", fmt.Errorf("パスワードの読み取りに失敗: %w", err)
	}
	return string(b), nil
}
