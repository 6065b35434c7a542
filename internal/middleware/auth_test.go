package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/agentdesk/internal/domain"
)

type fakeTokens map[string]*domain.Principal

func (f fakeTokens) ParseToken(token string) (*domain.Principal, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return nil, errors.New("bad token")
}

var tokens = fakeTokens{
	"admin-token": {UserID: "u1", Role: domain.RoleAdmin},
	"user-token":  {UserID: "u2", Role: domain.RoleUser},
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(tokens)
	var seen *domain.Principal
	h := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"user token", "Bearer user-token", http.StatusForbidden},
		{"admin token", "Bearer admin-token", http.StatusNoContent},
		{"lowercase scheme", "bearer admin-token", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, "u1", seen.UserID)
}

func TestOptional(t *testing.T) {
	m := NewAuthMiddleware(tokens)
	var seen *domain.Principal
	h := m.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetPrincipalFromContext(r.Context())
	}))

	serve(h, "")
	assert.Nil(t, seen)

	serve(h, "Bearer user-token")
	if assert.NotNil(t, seen) {
		assert.Equal(t, "u2", seen.UserID)
	}
}
