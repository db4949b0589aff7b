package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/fishlog/pkg/api"
)

// Пути identity endpoint
const (
	LoginPath    = "/api/auth/login"
	RegisterPath = "/api/auth/register"
)

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, LoginPath, req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, RegisterPath, req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}
