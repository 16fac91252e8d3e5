package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Requester はHTTPリクエストを実行する。*httpclient.Clientが満たす。
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, body any, result any) error
}

// Client はKookingバックエンドのAPIクライアント。
type Client struct {
	r Requester
}

// New は新しいAPIクライアントを生成する。
func New(r Requester) *Client {
	return &Client{r: r}
}

// Login はメールアドレスとパスワードでログインし、トークンを受け取る。
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.r.Do(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register はユーザーを登録し、作成されたユーザーを返す。トークンは発行されない。
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.r.Do(ctx, http.MethodPost, "/auth/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser はログイン中のユーザーのプロフィールを返す。
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.r.Do(ctx, http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile はプロフィールを更新する。
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var user User
	if err := c.r.Do(ctx, http.MethodPut, "/users/me", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Preferences は料理の好みの設定を返す。
func (c *Client) Preferences(ctx context.Context) (*UserPreferences, error) {
	var prefs UserPreferences
	if err := c.r.Do(ctx, http.MethodGet, "/users/me/preferences", nil, nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences は料理の好みの設定を更新する。
func (c *Client) UpdatePreferences(ctx context.Context, prefs UserPreferences) (*UserPreferences, error) {
	var updated UserPreferences
	if err := c.r.Do(ctx, http.MethodPut, "/users/me/preferences", nil, prefs, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// FavoriteRecipes はお気に入り登録したレシピの一覧を返す。sizeが0の場合は12件。
func (c *Client) FavoriteRecipes(ctx context.Context, page, size int) (*Page[RecipeCard], error) {
	var p Page[RecipeCard]
	if err := c.r.Do(ctx, http.MethodGet, "/users/me/favorite-recipes", paging(page, size, 12), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// paging はpageとsizeのクエリを組み立てる。sizeが0以下ならdefaultSizeを使う。
func paging(page, size, defaultSize int) url.Values {
	if size <= 0 {
		size = defaultSize
	}
	if page < 0 {
		page = 0
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// setIf は値が空でない場合のみクエリに設定する。
func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
