package devproxy

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nao1215/kooking/pkg/logs"
	"github.com/nao1215/kooking/pkg/middleware"
)

// upstreamTimeout は転送先の応答を待つ上限。
const upstreamTimeout = 30 * time.Second

// hopHeaders は転送しないホップバイホップヘッダー。
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

// Options はプロキシの設定。
type Options struct {
	// Port はリッスンポート。
	Port string
	// Target は転送先のベースURL。Backendを指定した場合は使わない。
	Target string
	// FrontendURL はCORSで許可するオリジン。
	FrontendURL string
	// VerifyTLS が真の場合は転送先の証明書を検証する。
	VerifyTLS bool
	// Backend を指定すると /api 以下をこのハンドラで直接処理する。
	Backend http.Handler
}

// Server は開発用プロキシのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// target は転送先のベースURL。
	target *url.URL
	// client は転送に使うHTTPクライアント。
	client *http.Client
}

// NewServer は新しいプロキシサーバーを生成する。
func NewServer(opts Options) (*Server, error) {
	s := &Server{port: opts.Port}

	if opts.Backend == nil {
		target, err := url.Parse(opts.Target)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("転送先のURLが不正です: %q", opts.Target)
		}
		s.target = target

		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !opts.VerifyTLS}
		s.client = &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   upstreamTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	if opts.FrontendURL != "" {
		router.Use(middleware.CORS([]string{opts.FrontendURL}))
	}
	s.router = router
	s.setupRoutes(opts.Backend)

	return s, nil
}

// Handler はHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はルーティングを設定する。
func (s *Server) setupRoutes(backend http.Handler) {
	if backend != nil {
		s.router.Any("/api/*path", gin.WrapH(backend))
	} else {
		s.router.Any("/api/*path", s.handleProxy())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "devproxy"})
	})
}

// handleProxy は /api 以下のリクエストを転送先へ中継するハンドラを返す。
func (s *Server) handleProxy() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := *s.target
		u.Path = strings.TrimRight(s.target.Path, "/") + c.Request.URL.Path
		u.RawQuery = c.Request.URL.RawQuery
		s.doProxy(c, u.String())
	}
}

// doProxy はリクエストを転送先へ中継する共通処理。
// ヘッダーはホップバイホップのものを除いてそのまま転送し、HostはTargetに合わせる。
// プロキシ側でCORSヘッダーを設定した場合は転送先のCORSヘッダーを捨てる。
func (s *Server) doProxy(c *gin.Context, target string) {
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "プロキシリクエストの作成に失敗しました"})
		return
	}
	req.Header = c.Request.Header.Clone()
	removeHopHeaders(req.Header)
	req.Header.Set("X-Forwarded-For", c.ClientIP())
	req.Header.Set("X-Forwarded-Host", c.Request.Host)
	req.ContentLength = c.Request.ContentLength

	resp, err := s.client.Do(req)
	if err != nil {
		logs.Printf("[Proxy] 転送に失敗: url=%s, error=%v", target, err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "バックエンドとの通信に失敗しました"})
		return
	}
	defer resp.Body.Close()

	header := c.Writer.Header()
	skipCORS := middleware.CORSApplied(c)
	for k, vs := range resp.Header {
		if skipCORS && middleware.IsCORSHeader(k) {
			continue
		}
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	removeHopHeaders(header)
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		logs.Printf("[Proxy] レスポンスの転送に失敗: url=%s, error=%v", target, err)
	}
}

func removeHopHeaders(h http.Header) {
	for _, k := range hopHeaders {
		h.Del(k)
	}
}
