package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/fishlog/internal/models"
)

// CapturesPath - коллекция уловов
const CapturesPath = "/api/fish-captures"

// ListCaptures возвращает все уловы
func (c *Client) ListCaptures(ctx context.Context) ([]models.FishCapture, error) {
	var captures []models.FishCapture
	if err := c.doJSON(ctx, http.MethodGet, CapturesPath, nil, &captures); err != nil {
		return nil, fmt.Errorf("list captures request failed: %w", err)
	}
	return captures, nil
}

// ListCapturesByUser возвращает уловы пользователя
func (c *Client) ListCapturesByUser(ctx context.Context, username string) ([]models.FishCapture, error) {
	var captures []models.FishCapture
	path := fmt.Sprintf("%s/user/%s", CapturesPath, url.PathEscape(username))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &captures); err != nil {
		return nil, fmt.Errorf("list user captures request failed: %w", err)
	}
	return captures, nil
}

// GetCapture возвращает улов по ID
func (c *Client) GetCapture(ctx context.Context, id int64) (*models.FishCapture, error) {
	var capture models.FishCapture
	if err := c.doJSON(ctx, http.MethodGet, capturePath(id), nil, &capture); err != nil {
		return nil, fmt.Errorf("get capture request failed: %w", err)
	}
	return &capture, nil
}

// CreateCapture создает новый улов
func (c *Client) CreateCapture(ctx context.Context, capture models.FishCapture) (*models.FishCapture, error) {
	var created models.FishCapture
	if err := c.doJSON(ctx, http.MethodPost, CapturesPath, capture, &created); err != nil {
		return nil, fmt.Errorf("create capture request failed: %w", err)
	}
	return &created, nil
}

// UpdateCapture обновляет улов
func (c *Client) UpdateCapture(ctx context.Context, capture models.FishCapture) (*models.FishCapture, error) {
	var updated models.FishCapture
	if err := c.doJSON(ctx, http.MethodPut, capturePath(capture.ID), capture, &updated); err != nil {
		return nil, fmt.Errorf("update capture request failed: %w", err)
	}
	return &updated, nil
}

// DeleteCapture удаляет улов
func (c *Client) DeleteCapture(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, capturePath(id), nil, nil); err != nil {
		return fmt.Errorf("delete capture request failed: %w", err)
	}
	return nil
}

func capturePath(id int64) string {
	return fmt.Sprintf("%s/%d", CapturesPath, id)
}
