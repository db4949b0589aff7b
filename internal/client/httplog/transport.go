// Package httplog логирует исходящие HTTP запросы клиента.
package httplog

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/fishlog/internal/lib/sl"
)

// Transport is an http.RoundTripper that logs method, path, status and duration
// of every request. Headers, bodies and query strings are never logged.
type Transport struct {
	// Base is the underlying RoundTripper. If nil, http.DefaultTransport is used.
	Base   http.RoundTripper
	Logger *slog.Logger
}

// New оборачивает base логирующим транспортом
func New(base http.RoundTripper, logger *slog.Logger) *Transport {
	return &Transport{Base: base, Logger: logger}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	duration := time.Since(start)

	logger := t.logger()
	path := sanitizePath(req.URL.Path)

	if err != nil {
		logger.Log(req.Context(), slog.LevelWarn, "HTTP request failed",
			"method", req.Method,
			"host", req.URL.Host,
			"path", path,
			"duration_ms", duration.Milliseconds(),
			sl.Err(err),
		)
		return nil, err
	}

	// Уровень зависит от статуса ответа
	level := slog.LevelDebug
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	} else if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}

	logger.Log(req.Context(), level, "HTTP request",
		"method", req.Method,
		"host", req.URL.Host,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
		"content_length", resp.ContentLength,
	)

	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// sanitizePath скрывает сегмент, следующий за /token/ или /reset/
// Например: /api/auth/reset/abc -> /api/auth/reset/***
func sanitizePath(path string) string {
	if !strings.Contains(path, "/token/") && !strings.Contains(path, "/reset/") {
		return path
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if (part == "token" || part == "reset") && i+1 < len(parts) && parts[i+1] != "" {
			parts[i+1] = "***"
		}
	}
	return strings.Join(parts, "/")
}
