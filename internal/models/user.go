package models

// Role определяет роль пользователя на сервере
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// Valid проверяет, что роль входит в известный набор
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// UserProfile представляет аутентифицированного пользователя.
// Профиль не меняется после получения и заменяется целиком при каждом login.
type UserProfile struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	CreatedAt     string `json:"createdAt"`             // ISO 8601, как присылает сервер
	LastLoginAt   string `json:"lastLoginAt,omitempty"` // ISO 8601
	ID            int64  `json:"id"`
	Enabled       bool   `json:"enabled"`
	AccountLocked bool   `json:"accountLocked"`
}

// User представляет публичную карточку пользователя из /api/users
type User struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	ID       int64  `json:"id"`
}
