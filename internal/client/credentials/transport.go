package credentials

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// TokenSource отдает текущий access token; ok=false, если токена нет
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool)
}

// TokenSourceFunc адаптирует функцию к TokenSource
type TokenSourceFunc func(ctx context.Context) (string, bool)

func (f TokenSourceFunc) Token(ctx context.Context) (string, bool) {
	return f(ctx)
}

// Transport is an http.RoundTripper that attaches "Authorization: Bearer <token>"
// to protected requests. It never blocks a request, never retries and never
// looks at responses.
type Transport struct {
	// Source отдает токен; nil означает отсутствие токена
	Source TokenSource

	// Base is the underlying RoundTripper. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Rules - упорядоченная таблица правил; nil означает DefaultRules()
	Rules []Rule

	// Origin - адрес backend, например из server_url.
	// Если задан, токен уходит только на тот же scheme и host:port,
	// а путь Origin считается префиксом и отрезается перед классификацией.
	Origin *url.URL

	// Metrics is optional
	Metrics *Metrics

	// Logger is optional; slog.Default() is used when nil
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	class := Classify(t.rules(), req.Method, t.classifiedURL(req.URL))
	if !t.sameOrigin(req.URL) {
		// чужой host, например после редиректа: токен не отдаем
		t.Metrics.observe(class, credentialForeign)
		t.logger().Debug("request outside server origin, credential skipped", "method", req.Method, "host", req.URL.Host)
		return t.base().RoundTrip(req)
	}
	if class != Protected {
		t.Metrics.observe(class, credentialSkipped)
		return t.base().RoundTrip(req)
	}

	token, ok := "", false
	if t.Source != nil {
		token, ok = t.Source.Token(req.Context())
	}
	if !ok || token == "" {
		// Отсутствие токена на защищенном маршруте - забота сервера
		t.Metrics.observe(class, credentialAbsent)
		t.logger().Debug("no credential for protected request", "method", req.Method, "path", req.URL.Path)
		return t.base().RoundTrip(req)
	}

	// RoundTripper не должен менять входящий запрос, поэтому работаем с копией
	authorized := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(authorized)

	t.Metrics.observe(class, credentialAttached)
	return t.base().RoundTrip(authorized)
}

// sameOrigin сравнивает scheme и host:port запроса с Origin; без Origin разрешено все
func (t *Transport) sameOrigin(u *url.URL) bool {
	if t.Origin == nil || t.Origin.Host == "" {
		return true
	}
	return strings.EqualFold(u.Scheme, t.Origin.Scheme) && hostPort(u) == hostPort(t.Origin)
}

func hostPort(u *url.URL) string {
	port := u.Port()
	if port == "" {
		switch strings.ToLower(u.Scheme) {
		case "https":
			port = "443"
		case "http":
			port = "80"
		}
	}
	return net.JoinHostPort(strings.ToLower(u.Hostname()), port)
}

// classifiedURL отрезает префикс пути Origin, чтобы правила сравнивались с путями API
func (t *Transport) classifiedURL(u *url.URL) string {
	if t.Origin == nil {
		return u.String()
	}
	base := strings.TrimRight(t.Origin.Path, "/")
	if base == "" {
		return u.String()
	}

	rest, ok := strings.CutPrefix(u.Path, base)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return u.String()
	}
	if rest == "" {
		rest = "/"
	}

	stripped := *u
	stripped.Path = rest
	stripped.RawPath = ""
	return stripped.String()
}

func (t *Transport) rules() []Rule {
	if t.Rules == nil {
		return defaultRules
	}
	return t.Rules
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
