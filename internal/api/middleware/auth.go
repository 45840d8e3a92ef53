package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/LeartBytyqi1/my-fit-companion/internal/auth"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
	"github.com/LeartBytyqi1/my-fit-companion/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// AuthMiddleware verifies bearer tokens and loads the current user.
type AuthMiddleware struct {
	tokens *auth.TokenManager
	db     store.DataStore
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(tokens *auth.TokenManager, db store.DataStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, db: db}
}

// RequireAuth rejects requests without a valid Bearer token and stores the
// full user record in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			jsonError(w, http.StatusUnauthorized, "access denied, no token provided")
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := m.db.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "database error")
			return
		}
		if user == nil {
			jsonError(w, http.StatusUnauthorized, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated users that hold none of the given roles.
// Must run after RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				jsonError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			jsonError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetUserFromContext retrieves the authenticated user from the request context.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
