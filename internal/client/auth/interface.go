package auth

import (
	"context"

	"github.com/iudanet/fishlog/pkg/api"
)

//go:generate moq -out identity_mock.go . IdentityClient

// IdentityClient - удаленный identity endpoint.
// *api.Client из internal/client/api реализует этот интерфейс.
type IdentityClient interface {
	// Login отправляет учетные данные на POST /api/auth/login
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)

	// Register отправляет профиль на POST /api/auth/register
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
}

// Navigator переключает view после logout или login
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc адаптирует функцию к Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// LoginPath - публичная view, на которую уводит Logout
const LoginPath = "/login"

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}
