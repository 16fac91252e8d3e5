package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// RecipeQuery はレシピ検索の条件。
type RecipeQuery struct {
	Page          int
	Size          int
	Search        string
	SortBy        string
	SortDirection string
}

// AdvancedRecipeQuery はレシピ詳細検索の条件。
type AdvancedRecipeQuery struct {
	Page               int
	Size               int
	Search             string
	IncludeIngredients []string
	ExcludeIngredients []string
	MaxCookingTime     int
	Cuisines           []string
	MealTypes          []string
	DietTypes          []string
	CookingMethods     []string
	Difficulties       []string
	SortBy             string
	SortDirection      string
}

// UserRecipeQuery は自分が作成したレシピの検索条件。
type UserRecipeQuery struct {
	Page     int
	Size     int
	Search   string
	Cuisine  string
	MealType string
	// Sort が空の場合は "newest"。
	Sort string
}

// Trending は人気のレシピを返す。
func (c *Client) Trending(ctx context.Context) ([]RecipeCard, error) {
	return c.recipeList(ctx, "/recipes/trending")
}

// Recommended はおすすめのレシピを返す。
func (c *Client) Recommended(ctx context.Context) ([]RecipeCard, error) {
	return c.recipeList(ctx, "/recipes/recommended")
}

// Seasonal は季節のレシピを返す。
func (c *Client) Seasonal(ctx context.Context) ([]RecipeCard, error) {
	return c.recipeList(ctx, "/recipes/seasonal")
}

func (c *Client) recipeList(ctx context.Context, path string) ([]RecipeCard, error) {
	var recipes []RecipeCard
	if err := c.r.Do(ctx, http.MethodGet, path, nil, nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Recipe はレシピの詳細を返す。
func (c *Client) Recipe(ctx context.Context, id string) (*RecipeDetail, error) {
	var recipe RecipeDetail
	if err := c.r.Do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(id), nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RecipeBrief はレシピの概要を返す。
func (c *Client) RecipeBrief(ctx context.Context, id string) (*RecipeBrief, error) {
	var recipe RecipeBrief
	if err := c.r.Do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(id)+"/brief", nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// SearchRecipes はレシピを検索する。sizeが0の場合は10件。
func (c *Client) SearchRecipes(ctx context.Context, q RecipeQuery) (*Page[RecipeCard], error) {
	query := paging(q.Page, q.Size, 10)
	setIf(query, "search", q.Search)
	setIf(query, "sortBy", q.SortBy)
	setIf(query, "sortDirection", q.SortDirection)

	var p Page[RecipeCard]
	if err := c.r.Do(ctx, http.MethodGet, "/recipes", query, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AdvancedSearch は材料や種別の条件を組み合わせてレシピを検索する。
func (c *Client) AdvancedSearch(ctx context.Context, q AdvancedRecipeQuery) (*Page[RecipeCard], error) {
	query := paging(q.Page, q.Size, 10)
	setIf(query, "search", q.Search)
	if q.MaxCookingTime > 0 {
		query.Set("maxCookingTime", strconv.Itoa(q.MaxCookingTime))
	}
	lists := map[string][]string{
		"includeIngredients": q.IncludeIngredients,
		"excludeIngredients": q.ExcludeIngredients,
		"cuisines":           q.Cuisines,
		"mealTypes":          q.MealTypes,
		"dietTypes":          q.DietTypes,
		"cookingMethods":     q.CookingMethods,
		"difficulties":       q.Difficulties,
	}
	for key, values := range lists {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	setIf(query, "sortBy", q.SortBy)
	setIf(query, "sortDirection", q.SortDirection)

	var p Page[RecipeCard]
	if err := c.r.Do(ctx, http.MethodGet, "/recipes/advanced-search", query, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UserRecipes はログイン中のユーザーが作成したレシピを返す。sizeが0の場合は12件。
func (c *Client) UserRecipes(ctx context.Context, q UserRecipeQuery) (*Page[RecipeCard], error) {
	query := paging(q.Page, q.Size, 12)
	setIf(query, "search", q.Search)
	setIf(query, "cuisine", q.Cuisine)
	setIf(query, "mealType", q.MealType)
	sort := q.Sort
	if sort == "" {
		sort = "newest"
	}
	query.Set("sort", sort)

	var p Page[RecipeCard]
	if err := c.r.Do(ctx, http.MethodGet, "/recipes/user", query, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateRecipe はレシピを作成する。
func (c *Client) CreateRecipe(ctx context.Context, req CreateRecipeRequest) (*RecipeDetail, error) {
	var recipe RecipeDetail
	if err := c.r.Do(ctx, http.MethodPost, "/recipes", nil, req, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe はレシピを更新する。
func (c *Client) UpdateRecipe(ctx context.Context, id string, req CreateRecipeRequest) (*RecipeDetail, error) {
	var recipe RecipeDetail
	if err := c.r.Do(ctx, http.MethodPut, "/recipes/"+url.PathEscape(id), nil, req, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe はレシピを削除する。
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.r.Do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id), nil, nil, nil)
}

// Favorite はレシピをお気に入りに登録する。
func (c *Client) Favorite(ctx context.Context, id string) error {
	return c.r.Do(ctx, http.MethodPost, "/recipes/"+url.PathEscape(id)+"/favorite", nil, nil, nil)
}

// Unfavorite はレシピをお気に入りから外す。
func (c *Client) Unfavorite(ctx context.Context, id string) error {
	return c.r.Do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id)+"/favorite", nil, nil, nil)
}
