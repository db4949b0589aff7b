package auth

import (
	"errors"
	"strings"

	"github.com/iudanet/fishlog/internal/client/api"
)

var (
	// ErrInvalidInput возвращается, когда форма не прошла проверку до сетевого вызова
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidResponse - сервер ответил 2xx, но без токена или пользователя
	ErrInvalidResponse = errors.New("invalid identity response")
)

// ValidationError перечисляет проблемы формы в читаемом виде
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ErrorMessage возвращает сообщение для показа пользователю.
// Сообщение сервера отдается как есть.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return strings.Join(validationErr.Problems, "; ")
	}

	if errors.Is(err, api.ErrTransport) {
		return "network error: server is unreachable"
	}

	return err.Error()
}
