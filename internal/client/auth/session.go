package auth

import "github.com/iudanet/fishlog/internal/models"

// Session - запись о текущем пользователе и его учетных данных
type Session struct {
	User         *models.UserProfile
	AccessToken  string
	RefreshToken string
}

// IsAuthenticated is true iff both the user and the access token are present
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.AccessToken != ""
}

// clone копирует профиль, чтобы подписчики не делили указатель со Store
func (s Session) clone() Session {
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	return s
}
