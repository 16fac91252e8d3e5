package api

import (
	"context"
	"net/http"
	"net/url"
)

// ShoppingLists はログイン中のユーザーの買い物リスト一覧を返す。
func (c *Client) ShoppingLists(ctx context.Context) ([]ShoppingList, error) {
	var lists []ShoppingList
	if err := c.r.Do(ctx, http.MethodGet, "/shopping-lists/user", nil, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// ShoppingList は買い物リストを返す。
func (c *Client) ShoppingList(ctx context.Context, id string) (*ShoppingList, error) {
	return c.shoppingListCall(ctx, http.MethodGet, shoppingListPath(id), nil)
}

// CreateShoppingList は買い物リストを作成する。
func (c *Client) CreateShoppingList(ctx context.Context, req UpdateShoppingListRequest) (*ShoppingList, error) {
	return c.shoppingListCall(ctx, http.MethodPost, "/shopping-lists", req)
}

// UpdateShoppingList は買い物リストを更新する。
func (c *Client) UpdateShoppingList(ctx context.Context, id string, req UpdateShoppingListRequest) (*ShoppingList, error) {
	return c.shoppingListCall(ctx, http.MethodPut, shoppingListPath(id), req)
}

// UpdateShoppingListStatus は買い物リストの状態だけを更新する。
func (c *Client) UpdateShoppingListStatus(ctx context.Context, id string, status ShoppingStatus) (*ShoppingList, error) {
	return c.shoppingListCall(ctx, http.MethodPut, shoppingListPath(id)+"/status", ShoppingStatusRequest{Status: status})
}

// DeleteShoppingList は買い物リストを削除する。
func (c *Client) DeleteShoppingList(ctx context.Context, id string) error {
	return c.r.Do(ctx, http.MethodDelete, shoppingListPath(id), nil, nil, nil)
}

// AddIngredients は買い物リストに材料を追加する。
func (c *Client) AddIngredients(ctx context.Context, id string, ingredientIDs []string) (*ShoppingList, error) {
	return c.shoppingListCall(ctx, http.MethodPost, shoppingListPath(id)+"/ingredients", AddIngredientsRequest{IngredientIDs: ingredientIDs})
}

// RemoveIngredient は買い物リストから材料を外す。
func (c *Client) RemoveIngredient(ctx context.Context, id, ingredientID string) (*ShoppingList, error) {
	return c.shoppingListCall(ctx, http.MethodDelete, shoppingListPath(id)+"/ingredients/"+url.PathEscape(ingredientID), nil)
}

func (c *Client) shoppingListCall(ctx context.Context, method, path string, body any) (*ShoppingList, error) {
	var list ShoppingList
	if err := c.r.Do(ctx, method, path, nil, body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func shoppingListPath(id string) string {
	return "/shopping-lists/" + url.PathEscape(id)
}
