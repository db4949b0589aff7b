package apitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Allow(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(2, time.Minute)

	assert.True(t, l.allow("10.0.0.1", start))
	assert.True(t, l.allow("10.0.0.1", start.Add(time.Second)))
	assert.False(t, l.allow("10.0.0.1", start.Add(2*time.Second)))

	// другой адрес считается отдельно
	assert.True(t, l.allow("10.0.0.2", start.Add(2*time.Second)))

	// новое окно
	assert.True(t, l.allow("10.0.0.1", start.Add(time.Minute)))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	assert.Equal(t, "192.0.2.10", clientIP(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(r))
}
