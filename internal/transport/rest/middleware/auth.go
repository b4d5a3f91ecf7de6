package middleware

import (
	"context"
	"net/http"
	"strings"

	"aireadiness/internal/model"
	"aireadiness/internal/service"
)

type contextKey string

const OwnerKey contextKey = "owner"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireOwner validates an account or guest JWT from the Authorization header
func (m *AuthMiddleware) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		owner, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), OwnerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAccount validates the token and rejects guest identities
func (m *AuthMiddleware) RequireAccount(next http.Handler) http.Handler {
	return m.RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := GetOwner(r.Context())
		if owner.Kind != model.OwnerAccount {
			http.Error(w, `{"error":"account token required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// GetOwner extracts the authenticated owner from context
func GetOwner(ctx context.Context) model.Owner {
	if v := ctx.Value(OwnerKey); v != nil {
		return v.(model.Owner)
	}
	return model.Owner{}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
