package httplog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newLogger(buf *strings.Builder) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestTransport_LogsRequest(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "ok", status: http.StatusOK, wantLevel: "level=DEBUG"},
		{name: "client error", status: http.StatusUnauthorized, wantLevel: "level=WARN"},
		{name: "server error", status: http.StatusBadGateway, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var buf strings.Builder
			client := &http.Client{Transport: New(nil, newLogger(&buf))}

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/api/fish-captures?secret=1", nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer top-secret")

			resp, err := client.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "method=GET")
			assert.Contains(t, out, "path=/api/fish-captures")
			assert.Contains(t, out, "duration_ms=")
			assert.NotContains(t, out, "top-secret")
			assert.NotContains(t, out, "secret=1")
		})
	}
}

func TestTransport_LogsTransportError(t *testing.T) {
	var buf strings.Builder
	wantErr := errors.New("connection refused")
	client := &http.Client{Transport: New(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, wantErr
	}), newLogger(&buf))}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, "http://localhost:1/api/auth/login", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Contains(t, buf.String(), "HTTP request failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/api/fish-captures", want: "/api/fish-captures"},
		{path: "/api/auth/reset/abc123", want: "/api/auth/reset/***"},
		{path: "/api/token/xyz/extra", want: "/api/token/***/extra"},
		{path: "/api/token/", want: "/api/token/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizePath(tt.path))
		})
	}
}
