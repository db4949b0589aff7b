package apitest_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/fishlog/internal/client/api"
	"github.com/iudanet/fishlog/internal/client/apitest"
	"github.com/iudanet/fishlog/internal/client/auth"
	"github.com/iudanet/fishlog/internal/client/credentials"
	"github.com/iudanet/fishlog/internal/client/storage/memory"
	"github.com/iudanet/fishlog/internal/models"
)

// wire собирает клиент так же, как это делает приложение
func wire(t *testing.T, srv *apitest.Server) (*auth.Store, *clientapi.Client) {
	t.Helper()

	filter := &credentials.Transport{}
	client := clientapi.NewClient(srv.URL, clientapi.WithTransport(filter))
	store := auth.NewStore(client, memory.New())
	filter.Source = store
	return store, client
}

func TestEndToEnd_CredentialAttachment(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "", models.RoleUser)

	ctx := context.Background()
	store, client := wire(t, srv)

	// анонимное чтение
	_, err := client.ListCaptures(ctx)
	require.NoError(t, err)
	last, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Empty(t, last.Authorization)

	// запись без токена отклоняется сервером, клиент не вмешивается
	_, err = client.CreateCapture(ctx, models.FishCapture{FishType: "Pike", Weight: 2})
	require.Error(t, err)
	var apiErr *clientapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = store.Login(ctx, "alice", apitest.DefaultPassword)
	require.NoError(t, err)
	last, _ = srv.LastRequest()
	assert.Equal(t, "/api/auth/login", last.Path)
	assert.Empty(t, last.Authorization)

	token, ok := store.Token(ctx)
	require.True(t, ok)

	// публичное чтение по-прежнему без заголовка
	_, err = client.ListCaptures(ctx)
	require.NoError(t, err)
	last, _ = srv.LastRequest()
	assert.Empty(t, last.Authorization)

	created, err := client.CreateCapture(ctx, models.FishCapture{FishType: "Pike", Weight: 2, CaptureData: "2024-05-01"})
	require.NoError(t, err)
	last, _ = srv.LastRequest()
	assert.Equal(t, "Bearer "+token, last.Authorization)
	assert.Equal(t, store.CurrentUser().ID, created.UserID)

	// повторный login тоже уходит без заголовка
	_, err = store.Login(ctx, "alice", apitest.DefaultPassword)
	require.NoError(t, err)
	last, _ = srv.LastRequest()
	assert.Empty(t, last.Authorization)

	require.NoError(t, store.Logout(ctx))
	err = client.DeleteCapture(ctx, created.ID)
	require.Error(t, err)
	last, _ = srv.LastRequest()
	assert.Empty(t, last.Authorization)
}

func TestEndToEnd_RegisterAndImages(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	ctx := context.Background()
	store, client := wire(t, srv)

	session, err := store.Register(ctx, auth.RegisterForm{
		Username:        "ana",
		Email:           "ana@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", session.User.Username)
	assert.Equal(t, models.RoleUser, session.User.Role)

	capture, err := client.CreateCapture(ctx, models.FishCapture{FishType: "Carp", Weight: 4.2, CaptureData: "2024-06-02"})
	require.NoError(t, err)

	uploaded, err := client.UploadImages(ctx, capture.ID, []clientapi.ImageFile{
		{Content: strings.NewReader("one"), Name: "one.jpg", ContentType: "image/jpeg", Size: 3},
		{Content: strings.NewReader("two"), Name: "two.png", ContentType: "image/png", Size: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, uploaded.TotalImages)
	require.Len(t, uploaded.UploadedImages, 2)

	count, err := client.CountImages(ctx, capture.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	deleted, err := client.DeleteImage(ctx, uploaded.UploadedImages[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	images, err := client.ListImages(ctx, capture.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "two.png", images[0].FileName)

	mine, err := client.ListCapturesByUser(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].FullName)
}

func TestServer_RejectsBadCredentials(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "", models.RoleUser)

	store, _ := wire(t, srv)
	_, err := store.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid username or password", auth.ErrorMessage(err))
	assert.False(t, store.IsAuthenticated())
}

func TestServer_DuplicateRegistration(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("ana", "", models.RoleUser)

	store, _ := wire(t, srv)
	_, err := store.Register(context.Background(), auth.RegisterForm{
		Username: "ana", Email: "ana@x.com", Password: "secret1", ConfirmPassword: "secret1", FullName: "Ana",
	})
	require.Error(t, err)
	assert.Equal(t, "Username already exists", auth.ErrorMessage(err))
}

func TestServer_OwnershipEnforced(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "", models.RoleUser)
	srv.AddUser("bob", "", models.RoleUser)
	capture := srv.AddCapture("alice", models.FishCapture{FishType: "Perch", Weight: 0.4})

	ctx := context.Background()
	store, client := wire(t, srv)
	_, err := store.Login(ctx, "bob", apitest.DefaultPassword)
	require.NoError(t, err)

	err = client.DeleteCapture(ctx, capture.ID)
	require.Error(t, err)
	var apiErr *clientapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestServer_IssueToken(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "", models.RoleAdmin)

	token, err := srv.IssueToken("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	_, err = srv.IssueToken("nobody")
	require.Error(t, err)
}

func TestAuthRateLimit(t *testing.T) {
	srv := apitest.NewServer(apitest.WithAuthRateLimit(2, time.Hour))
	defer srv.Close()
	srv.AddUser("alice", "", models.RoleUser)

	ctx := context.Background()
	store, client := wire(t, srv)

	_, err := store.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	_, err = store.Login(ctx, "alice", "wrong")
	require.Error(t, err)

	// третий запрос отклоняется до проверки пароля
	_, err = store.Login(ctx, "alice", apitest.DefaultPassword)
	require.Error(t, err)
	var apiErr *clientapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "Too many authentication attempts, please try again later", auth.ErrorMessage(err))
	assert.False(t, store.IsAuthenticated())

	// остальные endpoints не ограничены
	_, err = client.ListCaptures(ctx)
	require.NoError(t, err)
}
