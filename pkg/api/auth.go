package api

import "github.com/iudanet/fishlog/internal/models"

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// AuthResponse представляет ответ identity endpoint на login/register
type AuthResponse struct {
	User         *models.UserProfile `json:"user"`
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Message   string   `json:"message"`             // сообщение для пользователя
	Timestamp string   `json:"timestamp,omitempty"` // время ошибки на сервере
	Path      string   `json:"path,omitempty"`
	Errors    []string `json:"errors,omitempty"` // ошибки валидации
	Status    int      `json:"status,omitempty"`
}
