package credentials

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name   string
		method string
		url    string
		want   Class
	}{
		{name: "login GET", method: http.MethodGet, url: "http://localhost:8080/api/auth/login", want: AlwaysPublic},
		{name: "login POST", method: http.MethodPost, url: "http://localhost:8080/api/auth/login", want: AlwaysPublic},
		{name: "register POST", method: http.MethodPost, url: "http://localhost:8080/api/auth/register", want: AlwaysPublic},
		{name: "captures GET", method: http.MethodGet, url: "http://localhost:8080/api/fish-captures", want: PublicForRead},
		{name: "captures HEAD", method: http.MethodHead, url: "http://localhost:8080/api/fish-captures", want: PublicForRead},
		{name: "captures empty method", method: "", url: "http://localhost:8080/api/fish-captures", want: PublicForRead},
		{name: "captures POST", method: http.MethodPost, url: "http://localhost:8080/api/fish-captures", want: Protected},
		{name: "captures with query", method: http.MethodGet, url: "http://localhost:8080/api/fish-captures?page=2", want: PublicForRead},
		{name: "users GET", method: http.MethodGet, url: "http://localhost:8080/api/users", want: PublicForRead},
		{name: "users DELETE", method: http.MethodDelete, url: "http://localhost:8080/api/users", want: Protected},
		{name: "capture by id is not a prefix match", method: http.MethodGet, url: "http://localhost:8080/api/fish-captures/12", want: Protected},
		{name: "captures by user", method: http.MethodGet, url: "http://localhost:8080/api/fish-captures/user/ana", want: Protected},
		{name: "substring elsewhere in path", method: http.MethodPost, url: "http://localhost:8080/v2/api/auth/login", want: Protected},
		{name: "pattern in query string only", method: http.MethodPost, url: "http://localhost:8080/api/captures?next=/api/auth/login", want: Protected},
		{name: "relative path", method: http.MethodPost, url: "/api/auth/register", want: AlwaysPublic},
		{name: "images", method: http.MethodGet, url: "http://localhost:8080/api/captures/1/images", want: Protected},
		{name: "unparsable url falls back to suffix", method: http.MethodPost, url: "http://[::1%zz/api/auth/login", want: AlwaysPublic},
		{name: "unparsable url read fallback", method: http.MethodGet, url: "http://[::1%zz/api/fish-captures", want: PublicForRead},
		{name: "unparsable url protected", method: http.MethodPost, url: "http://[::1%zz/api/fish-captures", want: Protected},
		{name: "opaque url falls back to suffix", method: http.MethodPost, url: "localhost:8080/api/auth/login", want: AlwaysPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(rules, tt.method, tt.url))
		})
	}
}

func TestClassify_AlwaysPublicWinsOverOrder(t *testing.T) {
	// PublicForRead стоит раньше, но AlwaysPublic проверяется первым
	rules := []Rule{
		{Pattern: "/api/thing", Class: PublicForRead},
		{Pattern: "/api/thing", Class: AlwaysPublic},
	}

	assert.Equal(t, AlwaysPublic, Classify(rules, http.MethodGet, "https://example.com/api/thing"))
	assert.Equal(t, AlwaysPublic, Classify(rules, http.MethodPost, "https://example.com/api/thing"))
}

func TestClassify_NoRules(t *testing.T) {
	assert.Equal(t, Protected, Classify(nil, http.MethodGet, "http://localhost/api/auth/login"))
}

func TestDefaultRules_ReturnsCopy(t *testing.T) {
	rules := DefaultRules()
	rules[0].Class = Protected

	assert.Equal(t, AlwaysPublic, DefaultRules()[0].Class)
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "always_public", AlwaysPublic.String())
	assert.Equal(t, "public_for_read", PublicForRead.String())
}
