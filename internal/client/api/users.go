package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/fishlog/internal/models"
)

// UsersPath - публичный список пользователей
const UsersPath = "/api/users"

// ListUsers возвращает публичные карточки пользователей
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, UsersPath, nil, &users); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return users, nil
}
