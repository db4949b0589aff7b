package apitest

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// limiter - fixed window по ключу клиента
type limiter struct {
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	mu      sync.Mutex
}

type bucket struct {
	windowStart time.Time
	tokens      int
}

func newLimiter(rate int, window time.Duration) *limiter {
	return &limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		window:  window,
	}
}

// allow списывает токен; новое окно восполняет bucket целиком
func (l *limiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.window {
		b = &bucket{tokens: l.rate, windowStart: now}
		l.buckets[key] = b
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// rateLimit ограничивает частоту запросов к identity endpoint
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := clientIP(r)
		if !s.authLimiter.allow(key, time.Now()) {
			s.logger.Warn("Rate limit exceeded", "ip", key, "method", r.Method, "path", r.URL.Path)
			s.sendError(w, r, http.StatusTooManyRequests, "Too many authentication attempts, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
