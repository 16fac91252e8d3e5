package api

import (
	"context"
	"net/http"
	"net/url"
)

// Ingredients は材料の一覧を返す。sizeが0の場合は20件。
// searchとcategoryは空の場合は条件に含めない。
func (c *Client) Ingredients(ctx context.Context, page, size int, search, category string) (*Page[Ingredient], error) {
	query := paging(page, size, 20)
	setIf(query, "search", search)
	setIf(query, "category", category)

	var p Page[Ingredient]
	if err := c.r.Do(ctx, http.MethodGet, "/ingredients", query, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Ingredient は材料の詳細を返す。
func (c *Client) Ingredient(ctx context.Context, id string) (*Ingredient, error) {
	var ing Ingredient
	if err := c.r.Do(ctx, http.MethodGet, "/ingredients/"+url.PathEscape(id), nil, nil, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

// Categories は材料のカテゴリ一覧を返す。
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.r.Do(ctx, http.MethodGet, "/ingredients/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateIngredient は材料を作成する。
func (c *Client) CreateIngredient(ctx context.Context, req CreateIngredientRequest) (*Ingredient, error) {
	var ing Ingredient
	if err := c.r.Do(ctx, http.MethodPost, "/ingredients", nil, req, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

// UpdateIngredient は材料を更新する。
func (c *Client) UpdateIngredient(ctx context.Context, id string, req CreateIngredientRequest) (*Ingredient, error) {
	var ing Ingredient
	if err := c.r.Do(ctx, http.MethodPut, "/ingredients/"+url.PathEscape(id), nil, req, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

// DeleteIngredient は材料を削除する。
func (c *Client) DeleteIngredient(ctx context.Context, id string) error {
	return c.r.Do(ctx, http.MethodDelete, "/ingredients/"+url.PathEscape(id), nil, nil, nil)
}

// AddSubstitute は材料に代替材料を追加する。
func (c *Client) AddSubstitute(ctx context.Context, id, substituteID string) (*Ingredient, error) {
	var ing Ingredient
	if err := c.r.Do(ctx, http.MethodPost, substitutePath(id, substituteID), nil, nil, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

// RemoveSubstitute は材料から代替材料を外す。
func (c *Client) RemoveSubstitute(ctx context.Context, id, substituteID string) (*Ingredient, error) {
	var ing Ingredient
	if err := c.r.Do(ctx, http.MethodDelete, substitutePath(id, substituteID), nil, nil, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

func substitutePath(id, substituteID string) string {
	return "/ingredients/" + url.PathEscape(id) + "/substitutes/" + url.PathEscape(substituteID)
}
