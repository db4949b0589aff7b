// Package credentials decides, per outgoing request, whether to attach the bearer credential.
package credentials

import (
	"net/http"
	"net/url"
	"strings"
)

// Class - результат классификации запроса
type Class int

const (
	// Protected requests receive the credential when one exists
	Protected Class = iota
	// AlwaysPublic requests never receive the credential
	AlwaysPublic
	// PublicForRead requests skip the credential only for read methods
	PublicForRead
)

func (c Class) String() string {
	switch c {
	case AlwaysPublic:
		return "always_public"
	case PublicForRead:
		return "public_for_read"
	default:
		return "protected"
	}
}

// Rule связывает путь с классом
type Rule struct {
	Pattern string
	Class   Class
}

var defaultRules = []Rule{
	{Pattern: "/api/auth/login", Class: AlwaysPublic},
	{Pattern: "/api/auth/register", Class: AlwaysPublic},
	{Pattern: "/api/fish-captures", Class: PublicForRead},
	{Pattern: "/api/users", Class: PublicForRead},
}

// DefaultRules возвращает копию таблицы правил сервера fishlog
func DefaultRules() []Rule {
	return append([]Rule(nil), defaultRules...)
}

// Classify определяет класс запроса.
// Если rawURL разбирается и содержит путь, путь сравнивается с шаблоном точно;
// иначе шаблон ищется как суффикс rawURL.
// AlwaysPublic проверяется первым для любого метода, затем PublicForRead для GET/HEAD.
func Classify(rules []Rule, method, rawURL string) Class {
	path, parsed := requestPath(rawURL)
	matches := func(pattern string) bool {
		if parsed {
			return path == pattern
		}
		return strings.HasSuffix(rawURL, pattern)
	}

	for _, rule := range rules {
		if rule.Class == AlwaysPublic && matches(rule.Pattern) {
			return AlwaysPublic
		}
	}

	if isReadMethod(method) {
		for _, rule := range rules {
			if rule.Class == PublicForRead && matches(rule.Pattern) {
				return PublicForRead
			}
		}
	}

	return Protected
}

func requestPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "", false
	}
	return u.Path, true
}

func isReadMethod(method string) bool {
	// Пустой метод в net/http означает GET
	switch strings.ToUpper(method) {
	case "", http.MethodGet, http.MethodHead:
		return true
	}
	return false
}
