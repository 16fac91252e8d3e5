package api

import (
	"context"
	"net/http"
	"net/url"
)

// RecipeReviews はレシピのレビュー一覧を返す。sizeが0の場合は10件。
func (c *Client) RecipeReviews(ctx context.Context, recipeID string, page, size int) (*Page[Review], error) {
	var p Page[Review]
	if err := c.r.Do(ctx, http.MethodGet, "/reviews/recipe/"+url.PathEscape(recipeID), paging(page, size, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateReview はレシピにレビューを投稿する。
func (c *Client) CreateReview(ctx context.Context, recipeID string, req ReviewRequest) (*Review, error) {
	var review Review
	if err := c.r.Do(ctx, http.MethodPost, "/reviews/recipe/"+url.PathEscape(recipeID), nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview はレビューを更新する。
func (c *Client) UpdateReview(ctx context.Context, reviewID string, req ReviewRequest) (*Review, error) {
	var review Review
	if err := c.r.Do(ctx, http.MethodPut, "/reviews/"+url.PathEscape(reviewID), nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview はレビューを削除する。
func (c *Client) DeleteReview(ctx context.Context, reviewID string) error {
	return c.r.Do(ctx, http.MethodDelete, "/reviews/"+url.PathEscape(reviewID), nil, nil, nil)
}
