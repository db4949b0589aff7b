// Package auth хранит сессию клиента: кто вошел, с какими токенами,
// и синхронизирует это состояние с долговременным хранилищем.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/fishlog/internal/client/storage"
	"github.com/iudanet/fishlog/internal/lib/sl"
	"github.com/iudanet/fishlog/internal/models"
	"github.com/iudanet/fishlog/pkg/api"
)

// Store is the single source of truth for who is logged in.
//
// Network calls run outside the lock. Their results are applied under the lock
// together with the storage write and the publish, so concurrent logins never
// interleave and the last one to complete wins.
type Store struct {
	identity  IdentityClient
	storage   storage.SessionStorage
	navigator Navigator
	logger    *slog.Logger

	subs    map[uint64]chan Session
	session Session
	nextSub uint64
	mu      sync.RWMutex
}

// Option настраивает Store
type Option func(*Store)

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithNavigator задает получателя переходов после logout
func WithNavigator(n Navigator) Option {
	return func(s *Store) {
		s.navigator = n
	}
}

// NewStore создает пустую (анонимную) сессию.
// Для чтения сохраненной сессии нужно один раз вызвать Restore.
func NewStore(identity IdentityClient, st storage.SessionStorage, opts ...Option) *Store {
	s := &Store{
		identity:  identity,
		storage:   st,
		navigator: noopNavigator{},
		logger:    slog.Default(),
		subs:      make(map[uint64]chan Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login аутентифицирует пользователя на identity endpoint.
// При ошибке текущая сессия не меняется.
func (s *Store) Login(ctx context.Context, username, password string) (Session, error) {
	form := LoginForm{Username: username, Password: password}
	if err := form.Validate(); err != nil {
		return Session{}, err
	}

	resp, err := s.identity.Login(ctx, form.Request())
	if err != nil {
		return Session{}, fmt.Errorf("login failed: %w", err)
	}

	session, err := s.apply(ctx, resp)
	if err != nil {
		return Session{}, fmt.Errorf("login failed: %w", err)
	}

	s.logger.Info("user logged in", "username", session.User.Username, "role", session.User.Role)
	return session, nil
}

// Register регистрирует пользователя и сразу открывает сессию.
// Форма проверяется до сетевого вызова.
func (s *Store) Register(ctx context.Context, form RegisterForm) (Session, error) {
	if err := form.Validate(); err != nil {
		return Session{}, err
	}

	resp, err := s.identity.Register(ctx, form.Request())
	if err != nil {
		return Session{}, fmt.Errorf("registration failed: %w", err)
	}

	session, err := s.apply(ctx, resp)
	if err != nil {
		return Session{}, fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("user registered", "username", session.User.Username, "id", session.User.ID)
	return session, nil
}

// apply сохраняет ответ identity endpoint и публикует новую сессию
func (s *Store) apply(ctx context.Context, resp *api.AuthResponse) (Session, error) {
	if resp == nil || resp.AccessToken == "" || resp.User == nil {
		return Session{}, ErrInvalidResponse
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return Session{}, fmt.Errorf("failed to marshal user: %w", err)
	}

	user := *resp.User
	next := Session{
		User:         &user,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Ответ, пришедший после отмены вызова, отбрасывается
	if err := ctx.Err(); err != nil {
		s.logger.Debug("discarding identity response after cancellation", sl.Err(err))
		return Session{}, err
	}

	entries := &storage.Entries{
		Token:        next.AccessToken,
		RefreshToken: next.RefreshToken,
		User:         string(userJSON),
	}
	// Запись уже решена: не даем отмене оборвать ее на полпути
	if err := s.storage.SaveEntries(context.WithoutCancel(ctx), entries); err != nil {
		return Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	s.publishLocked(next)
	return next.clone(), nil
}

// Logout удаляет сохраненные записи и сбрасывает сессию.
// Повторный вызов безопасен. Память сбрасывается даже при ошибке хранилища.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.clearLocked(ctx)
	s.mu.Unlock()

	s.navigator.Navigate(LoginPath)
	return err
}

func (s *Store) clearLocked(ctx context.Context) error {
	var err error
	if delErr := s.storage.DeleteEntries(context.WithoutCancel(ctx)); delErr != nil {
		s.logger.Error("failed to delete stored session", sl.Err(delErr))
		err = fmt.Errorf("failed to delete session: %w", delErr)
	}
	s.publishLocked(Session{})
	return err
}

// Restore читает сохраненную сессию; вызывается один раз при старте.
// Поврежденные записи удаляются, ошибка наружу не отдается.
func (s *Store) Restore(ctx context.Context) {
	entries, err := s.storage.GetEntries(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrCorruptEntry) {
			s.logger.Warn("stored session is corrupt, clearing", sl.Err(err))
			s.mu.Lock()
			_ = s.clearLocked(ctx)
			s.mu.Unlock()
			return
		}
		s.logger.Warn("failed to read stored session", sl.Err(err))
		return
	}

	if entries.Token == "" || entries.User == "" {
		s.logger.Debug("no stored session")
		return
	}

	var user *models.UserProfile
	if err := json.Unmarshal([]byte(entries.User), &user); err != nil || user == nil {
		if err == nil {
			err = errors.New("user entry is null")
		}
		s.logger.Warn("stored user is corrupt, clearing session", sl.Err(err))
		s.mu.Lock()
		_ = s.clearLocked(ctx)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(Session{
		User:         user,
		AccessToken:  entries.Token,
		RefreshToken: entries.RefreshToken,
	})
	s.logger.Debug("session restored", "username", user.Username)
}

// Token читает access token из хранилища.
// Ошибка чтения логируется и считается отсутствием токена.
func (s *Store) Token(ctx context.Context) (string, bool) {
	token, err := s.storage.GetToken(ctx)
	if err != nil {
		s.logger.Warn("failed to read access token", sl.Err(err))
		return "", false
	}
	return token, token != ""
}

// Session возвращает копию текущей сессии
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.clone()
}

// CurrentUser возвращает профиль или nil для анонимной сессии
func (s *Store) CurrentUser() *models.UserProfile {
	return s.Session().User
}

// IsAuthenticated сообщает, есть ли в памяти пользователь и токен
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated()
}

// HasRole is true iff a user is present and has exactly this role
func (s *Store) HasRole(role models.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User != nil && s.session.User.Role == role
}

// IsAdmin - сокращение для HasRole(models.RoleAdmin)
func (s *Store) IsAdmin() bool {
	return s.HasRole(models.RoleAdmin)
}

// Subscribe возвращает канал с текущей сессией и всеми последующими изменениями.
// В канале всегда лежит только самое свежее значение: подписчик, который
// не успевает читать, пропускает промежуточные сессии.
// Вызов возвращенной функции отписывает и закрывает канал.
func (s *Store) Subscribe() (<-chan Session, func()) {
	ch := make(chan Session, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.session.clone()
	s.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

// publishLocked заменяет сессию и рассылает ее подписчикам; s.mu должен быть захвачен
func (s *Store) publishLocked(next Session) {
	s.session = next
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next.clone()
	}
}
