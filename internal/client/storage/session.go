package storage

import "context"

// Ключи durable записей сессии
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Keys возвращает все ключи сессии в порядке записи
func Keys() []string {
	return []string{KeyToken, KeyRefreshToken, KeyUser}
}

// Entries represents the three durable session entries.
// Empty string means the entry is absent.
type Entries struct {
	Token        string // opaque access token
	RefreshToken string
	User         string // JSON-serialized models.UserProfile
}

// Value возвращает значение записи по ключу
func (e *Entries) Value(key string) string {
	switch key {
	case KeyToken:
		return e.Token
	case KeyRefreshToken:
		return e.RefreshToken
	case KeyUser:
		return e.User
	}
	return ""
}

// Set устанавливает значение записи по ключу, неизвестные ключи игнорируются
func (e *Entries) Set(key, value string) {
	switch key {
	case KeyToken:
		e.Token = value
	case KeyRefreshToken:
		e.RefreshToken = value
	case KeyUser:
		e.User = value
	}
}

// SessionStorage defines interface for storing session entries on client.
// Only auth.Store writes through it; other components read via auth.Store.
type SessionStorage interface {
	// SaveEntries atomically replaces all three entries.
	// Empty values remove the corresponding entry.
	SaveEntries(ctx context.Context, entries *Entries) error

	// GetEntries reads all entries; missing entries are returned as empty strings.
	GetEntries(ctx context.Context) (*Entries, error)

	// GetToken reads the access token only; returns "" when absent.
	GetToken(ctx context.Context) (string, error)

	// DeleteEntries removes all entries. Deleting absent entries is not an error.
	DeleteEntries(ctx context.Context) error

	// Close releases underlying resources
	Close() error
}
