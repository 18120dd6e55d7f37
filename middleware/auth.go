package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/services"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Authenticate разрешает bearer-токен в Identity и кладёт её в контекст
// запроса. Любой изъян токена — 401.
func Authenticate(auth services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.ResolveIdentity(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, services.ErrUnauthenticated) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize пропускает запрос только для перечисленных ролей.
func Authorize(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := GetIdentityFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if role == identity.Role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// GetIdentityFromContext достаёт разрешённую личность из контекста.
func GetIdentityFromContext(ctx context.Context) (*models.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*models.Identity)
	if !ok || identity == nil {
		return nil, errors.New("identity not found in context")
	}
	return identity, nil
}
