package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
)

type contextKey string

const (
	// ContextKeyPrincipal is the key for storing the caller in request context.
	ContextKeyPrincipal contextKey = "principal"
)

// TokenParser verifies session tokens.
type TokenParser interface {
	ParseToken(token string) (*domain.Principal, error)
}

// AuthMiddleware handles Bearer token authentication.
type AuthMiddleware struct {
	tokens TokenParser
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// writeError mirrors the API error envelope without importing the handler
// packages.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates the Bearer token and adds the principal to the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Not authenticated")
			return
		}

		principal, err := m.tokens.ParseToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin authenticates the request and rejects non-admin callers.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := GetPrincipalFromContext(r.Context())
		if err != nil || !principal.IsAdmin() {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// Optional attaches the principal when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			if principal, err := m.tokens.ParseToken(token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyPrincipal, principal))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipalFromContext retrieves the authenticated caller from request context.
func GetPrincipalFromContext(ctx context.Context) (*domain.Principal, error) {
	principal, ok := ctx.Value(ContextKeyPrincipal).(*domain.Principal)
	if !ok || principal == nil {
		return nil, domain.ErrInvalidToken
	}
	return principal, nil
}
