package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pribylovaa/sciarticles/internal/models"
)

// CreateArticle создаёт статью и возвращает её серверное представление.
func (c *Client) CreateArticle(ctx context.Context, a models.Article) (models.Article, error) {
	const op = "client.CreateArticle"

	data, err := c.call(ctx, http.MethodPost, articlesPath, a.ToPayload())
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	var p struct {
		Article models.ArticleRecord `json:"article"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Article{}, fmt.Errorf("%s: decode article: %w", op, err)
	}

	return models.ArticleFromRecord(p.Article), nil
}

// ArticlesByUser возвращает статьи пользователя.
func (c *Client) ArticlesByUser(ctx context.Context, userID int64) ([]models.Article, error) {
	const op = "client.ArticlesByUser"

	data, err := c.call(ctx, http.MethodGet, articlesByUserPath(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var p struct {
		Articles []models.ArticleRecord `json:"articles"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: decode articles: %w", op, err)
	}

	return models.ArticlesFromRecords(p.Articles), nil
}

// ArticleByID возвращает одну статью.
func (c *Client) ArticleByID(ctx context.Context, id int64) (models.Article, error) {
	const op = "client.ArticleByID"

	data, err := c.call(ctx, http.MethodGet, articlePath(id), nil)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	var p struct {
		Article models.ArticleRecord `json:"article"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Article{}, fmt.Errorf("%s: decode article: %w", op, err)
	}

	return models.ArticleFromRecord(p.Article), nil
}

// UpdateArticle обновляет статью по a.ID.
func (c *Client) UpdateArticle(ctx context.Context, a models.Article) error {
	const op = "client.UpdateArticle"

	if _, err := c.call(ctx, http.MethodPut, articlePath(a.ID), a.ToPayload()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteArticle удаляет статью.
func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	const op = "client.DeleteArticle"

	if _, err := c.call(ctx, http.MethodDelete, articlePath(id), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
