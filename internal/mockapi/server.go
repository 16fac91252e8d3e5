package mockapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/kooking/internal/api"
	"github.com/nao1215/kooking/pkg/logs"
	"github.com/nao1215/kooking/pkg/middleware"
)

// TokenTTL は発行するトークンの有効期間。
const TokenTTL = 24 * time.Hour

// passwordCost はbcryptのコスト。モックなので最小値を使う。
const passwordCost = bcrypt.MinCost

// account は登録済みユーザー。
type account struct {
	user         api.User
	passwordHash []byte
}

// Server はモックバックエンドのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine

	mu sync.RWMutex
	// secret はJWT署名用の秘密鍵。
	secret string
	// accounts はメールアドレスをキーにしたユーザー。
	accounts map[string]*account
	// recipes はID順のレシピ。
	recipes []api.RecipeDetail
	// favorites はユーザーIDごとのお気に入りレシピID。
	favorites map[string]map[string]struct{}
	// ingredients はID順の材料。
	ingredients []api.Ingredient
	// shoppingLists はユーザーIDごとの買い物リスト。
	shoppingLists map[string][]api.ShoppingList
	// meFailure は0以外のとき /users/me がこのステータスで失敗する。
	meFailure int
	// calls は "METHOD /path" ごとの呼び出し回数。
	calls map[string]int
}

// New は新しいモックサーバーを生成する。seedがtrueの場合はデモデータを投入する。
func New(secret string, seed bool) *Server {
	s := &Server{
		secret:        secret,
		accounts:      make(map[string]*account),
		favorites:     make(map[string]map[string]struct{}),
		shoppingLists: make(map[string][]api.ShoppingList),
		calls:         make(map[string]int),
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(s.countCalls())
	s.router = router
	s.setupRoutes()

	if seed {
		s.seed()
	}
	return s
}

// Handler はHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	root := s.router.Group("/api")

	// 認証（認証不要）
	auth := root.Group("/auth")
	{
		auth.POST("/login", s.handleLogin())
		auth.POST("/register", s.handleRegister())
	}

	// 公開エンドポイント
	root.GET("/recipes/trending", s.handleTrending())
	root.GET("/recipes", s.handleSearchRecipes())
	root.GET("/ingredients", s.handleIngredients())
	root.GET("/ingredients/categories", s.handleCategories())

	// 認証必須のエンドポイント
	protected := root.Group("")
	protected.Use(middleware.JWTAuth(s.currentSecret))
	{
		protected.GET("/users/me", s.handleCurrentUser())
		protected.GET("/users/me/favorite-recipes", s.handleFavoriteRecipes())
		protected.GET("/recipes/:id", s.handleRecipe())
		protected.POST("/recipes/:id/favorite", s.handleFavorite(true))
		protected.DELETE("/recipes/:id/favorite", s.handleFavorite(false))
		protected.GET("/shopping-lists/user", s.handleShoppingLists())
		protected.GET("/shopping-lists/:id", s.handleShoppingList())
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "mockapi"})
	})
}

// countCalls はマッチしたルートごとに呼び出し回数を数えるミドルウェアを返す。
func (s *Server) countCalls() gin.HandlerFunc {
	return func(c *gin.Context) {
		if route := c.FullPath(); route != "" {
			s.mu.Lock()
			s.calls[c.Request.Method+" "+route]++
			s.mu.Unlock()
		}
		c.Next()
	}
}

// Calls は "GET /api/users/me" 形式のルートが呼ばれた回数を返す。
func (s *Server) Calls(route string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[route]
}

// AddUser はユーザーを登録する。
func (s *Server) AddUser(firstName, lastName, email, password string) (api.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return api.User{}, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return api.User{}, fmt.Errorf("メールアドレスは登録済みです: %s", email)
	}
	user := api.User{ID: uuid.NewString(), FirstName: firstName, LastName: lastName, Email: email}
	s.accounts[email] = &account{user: user, passwordHash: hash}
	return user, nil
}

// IssueToken はユーザーのトークンを発行する。
func (s *Server) IssueToken(user api.User) (string, error) {
	return middleware.GenerateJWT(s.currentSecret(), user.ID, user.Email, TokenTTL)
}

// FailCurrentUser は以降の /users/me を指定ステータスで失敗させる。0で解除する。
func (s *Server) FailCurrentUser(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meFailure = status
}

// RotateSecret は署名鍵を差し替える。発行済みのトークンはすべて401になる。
func (s *Server) RotateSecret(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = secret
}

func (s *Server) currentSecret() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secret
}

func (s *Server) userByID(id string) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.user.ID == id {
			return a.user, true
		}
	}
	return api.User{}, false
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

func logf(format string, args ...any) {
	logs.Printv("[MockAPI] "+format, args...)
}
