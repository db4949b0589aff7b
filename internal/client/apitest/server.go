// Package apitest provides an in-process fake of the fishlog REST backend for tests.
//
// It implements the identity endpoint, fish captures, users and capture images
// with in-memory state, issues real HS256 JWT access tokens and records every
// request so tests can assert which ones carried a credential.
package apitest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi"

	"github.com/iudanet/fishlog/internal/models"
	"github.com/iudanet/fishlog/pkg/api"
)

// Пароль пользователей, созданных через AddUser без явного пароля
const DefaultPassword = "secret1"

// RecordedRequest - запрос, который видел сервер
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
}

type account struct {
	password string
	fullName string
	profile  models.UserProfile
}

// Server - фейковый backend поверх httptest.Server
type Server struct {
	*httptest.Server

	logger      *slog.Logger
	authLimiter *limiter
	tokens      tokenIssuer

	accounts map[string]*account
	captures map[int64]models.FishCapture
	images   map[int64]imageRecord
	requests []RecordedRequest

	nextUserID    int64
	nextCaptureID int64
	nextImageID   int64
	mu            sync.Mutex
}

type imageRecord struct {
	image     models.CaptureImage
	captureID int64
}

// Option настраивает Server
type Option func(*Server)

// WithLogger задает логгер сервера
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTokenTTL задает срок жизни access token
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tokens.ttl = ttl
	}
}

// WithAuthRateLimit ограничивает login и register до rate запросов за window с одного адреса
func WithAuthRateLimit(rate int, window time.Duration) Option {
	return func(s *Server) {
		s.authLimiter = newLimiter(rate, window)
	}
}

// NewServer запускает фейковый backend. Его нужно закрыть через Close.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		tokens:        tokenIssuer{secret: []byte("apitest-secret"), ttl: time.Hour},
		accounts:      make(map[string]*account),
		captures:      make(map[int64]models.FishCapture),
		images:        make(map[int64]imageRecord),
		nextUserID:    1,
		nextCaptureID: 1,
		nextImageID:   1,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recovery, s.logging, s.record, s.optionalBearer)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/api/auth/login", s.handleLogin)
		r.Post("/api/auth/register", s.handleRegister)
	})

	r.Get("/api/users", s.handleListUsers)

	r.Route("/api/fish-captures", func(r chi.Router) {
		r.Get("/", s.handleListCaptures)
		r.Get("/user/{username}", s.handleListUserCaptures)
		r.Get("/{id}", s.handleGetCapture)

		r.Group(func(r chi.Router) {
			r.Use(s.requireBearer)
			r.Post("/", s.handleCreateCapture)
			r.Put("/{id}", s.handleUpdateCapture)
			r.Delete("/{id}", s.handleDeleteCapture)
		})
	})

	r.Route("/api/captures", func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Get("/images/{imageId}", s.handleGetImage)
		r.Delete("/images/{imageId}", s.handleDeleteImage)
		r.Get("/{captureId}/images", s.handleListImages)
		r.Post("/{captureId}/images", s.handleUploadImage)
		r.Delete("/{captureId}/images", s.handleDeleteAllImages)
		r.Post("/{captureId}/images/multiple", s.handleUploadImages)
		r.Get("/{captureId}/images/count", s.handleCountImages)
	})

	return r
}

// AddUser создает пользователя напрямую, минуя регистрацию
func (s *Server) AddUser(username, password string, role models.Role) models.UserProfile {
	if password == "" {
		password = DefaultPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, username+"@example.com", password, username, role)
}

func (s *Server) addUserLocked(username, email, password, fullName string, role models.Role) models.UserProfile {
	profile := models.UserProfile{
		ID:        s.nextUserID,
		Username:  username,
		Email:     email,
		Role:      role,
		Enabled:   true,
		CreatedAt: now(),
	}
	s.nextUserID++
	s.accounts[username] = &account{password: password, fullName: fullName, profile: profile}
	return profile
}

// AddCapture кладет улов от имени пользователя
func (s *Server) AddCapture(owner string, capture models.FishCapture) models.FishCapture {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acc, ok := s.accounts[owner]; ok {
		capture.UserID = acc.profile.ID
	}
	capture.ID = s.nextCaptureID
	s.nextCaptureID++
	if capture.CreatedAt == "" {
		capture.CreatedAt = now()
	}
	s.captures[capture.ID] = capture
	return capture
}

// IssueToken выдает access token для пользователя, как это сделал бы login
func (s *Server) IssueToken(username string) (string, error) {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		return "", errUnknownUser
	}
	access, _, err := s.tokens.issue(acc.profile)
	return access, err
}

// Requests возвращает копию журнала запросов
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest возвращает последний запрос; ok=false, если запросов не было
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// ResetRequests очищает журнал запросов
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, r *http.Request, status int, message string, errs ...string) {
	s.writeJSON(w, status, api.ErrorResponse{
		Message:   message,
		Errors:    errs,
		Status:    status,
		Path:      r.URL.Path,
		Timestamp: now(),
	})
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}
