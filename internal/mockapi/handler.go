package mockapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/kooking/internal/api"
	"github.com/nao1215/kooking/pkg/middleware"
)

// handleLogin はメールアドレスとパスワードを検証してトークンを返すハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req api.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "リクエストが不正です")
			return
		}

		s.mu.RLock()
		acc, ok := s.accounts[req.Email]
		s.mu.RUnlock()
		if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}

		token, err := s.IssueToken(acc.user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "トークン生成に失敗しました"})
			logf("JWT生成エラー: %v", err)
			return
		}
		logf("ログイン: %s", req.Email)
		c.JSON(http.StatusOK, api.LoginResponse{Message: "Login successful", Token: token})
	}
}

// handleRegister はユーザーを登録するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req api.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "リクエストが不正です")
			return
		}
		switch {
		case req.Email == "" || req.Password == "":
			badRequest(c, "Email and password are required")
			return
		case req.Password != req.ConfirmPassword:
			badRequest(c, "Passwords do not match")
			return
		}

		user, err := s.AddUser(req.FirstName, req.LastName, req.Email, req.Password)
		if err != nil {
			badRequest(c, "Email is already registered")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// handleCurrentUser は認証済みユーザーのプロフィールを返すハンドラを返す。
func (s *Server) handleCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		failure := s.meFailure
		s.mu.RUnlock()
		if failure != 0 {
			c.JSON(failure, gin.H{"message": http.StatusText(failure)})
			return
		}

		user, ok := s.userByID(middleware.GetUserID(c))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "ユーザーが見つかりません"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// handleTrending は人気順のレシピを返すハンドラを返す。
func (s *Server) handleTrending() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		cards := make([]api.RecipeCard, 0, len(s.recipes))
		for _, r := range s.recipes {
			cards = append(cards, r.RecipeCard)
		}
		s.mu.RUnlock()

		slices.SortStableFunc(cards, func(a, b api.RecipeCard) int { return b.Popularity - a.Popularity })
		c.JSON(http.StatusOK, cards)
	}
}

// handleSearchRecipes は名前と説明の部分一致でレシピを検索するハンドラを返す。
func (s *Server) handleSearchRecipes() gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.ToLower(c.Query("search"))

		s.mu.RLock()
		var cards []api.RecipeCard
		for _, r := range s.recipes {
			if search == "" || strings.Contains(strings.ToLower(r.Name), search) ||
				strings.Contains(strings.ToLower(r.Description), search) {
				cards = append(cards, r.RecipeCard)
			}
		}
		s.mu.RUnlock()

		c.JSON(http.StatusOK, paginate(c, cards, 10))
	}
}

// handleRecipe はレシピの詳細を返すハンドラを返す。
func (s *Server) handleRecipe() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID := middleware.GetUserID(c)

		s.mu.RLock()
		defer s.mu.RUnlock()
		for _, r := range s.recipes {
			if r.ID == id {
				_, r.IsFavorite = s.favorites[userID][id]
				c.JSON(http.StatusOK, r)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
	}
}

// handleFavorite はお気に入りの登録または解除を行うハンドラを返す。
func (s *Server) handleFavorite(add bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID := middleware.GetUserID(c)

		s.mu.Lock()
		defer s.mu.Unlock()
		if !slices.ContainsFunc(s.recipes, func(r api.RecipeDetail) bool { return r.ID == id }) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		if add {
			if s.favorites[userID] == nil {
				s.favorites[userID] = make(map[string]struct{})
			}
			s.favorites[userID][id] = struct{}{}
		} else {
			delete(s.favorites[userID], id)
		}
		c.Status(http.StatusOK)
	}
}

// handleFavoriteRecipes はお気に入りレシピの一覧を返すハンドラを返す。
func (s *Server) handleFavoriteRecipes() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		s.mu.RLock()
		var cards []api.RecipeCard
		for _, r := range s.recipes {
			if _, ok := s.favorites[userID][r.ID]; ok {
				cards = append(cards, r.RecipeCard)
			}
		}
		s.mu.RUnlock()

		c.JSON(http.StatusOK, paginate(c, cards, 12))
	}
}

// handleIngredients はカテゴリと名前で絞り込んだ材料を返すハンドラを返す。
func (s *Server) handleIngredients() gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.ToLower(c.Query("search"))
		category := c.Query("category")

		s.mu.RLock()
		var items []api.Ingredient
		for _, in := range s.ingredients {
			if category != "" && in.Category != category {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(in.Name), search) {
				continue
			}
			items = append(items, in)
		}
		s.mu.RUnlock()

		c.JSON(http.StatusOK, paginate(c, items, 20))
	}
}

// handleCategories は材料カテゴリの一覧を返すハンドラを返す。
func (s *Server) handleCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		categories := make([]string, 0)
		for _, in := range s.ingredients {
			if !slices.Contains(categories, in.Category) {
				categories = append(categories, in.Category)
			}
		}
		s.mu.RUnlock()

		slices.Sort(categories)
		c.JSON(http.StatusOK, categories)
	}
}

// handleShoppingLists はユーザーの買い物リスト一覧を返すハンドラを返す。
func (s *Server) handleShoppingLists() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		lists := slices.Clone(s.shoppingLists[middleware.GetUserID(c)])
		s.mu.RUnlock()

		if lists == nil {
			lists = []api.ShoppingList{}
		}
		c.JSON(http.StatusOK, lists)
	}
}

// handleShoppingList は買い物リストを返すハンドラを返す。
// 他のユーザーのリストは存在しないものとして扱う。
func (s *Server) handleShoppingList() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		s.mu.RLock()
		defer s.mu.RUnlock()
		for _, l := range s.shoppingLists[middleware.GetUserID(c)] {
			if l.ID == id {
				c.JSON(http.StatusOK, l)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Shopping list not found"})
	}
}

// paginate はpage/sizeクエリに従ってitemsを切り出す。
func paginate[T any](c *gin.Context, items []T, defaultSize int) api.Page[T] {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultSize
	}

	total := len(items)
	start := min(page*size, total)
	end := min(start+size, total)
	content := items[start:end]
	if content == nil {
		content = []T{}
	}
	totalPages := (total + size - 1) / size

	return api.Page[T]{
		Content:       content,
		PageNumber:    page,
		PageSize:      size,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}
