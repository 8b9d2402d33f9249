package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

type contextKey string

const (
	AdminKey contextKey = "admin"

	accessTokenCookie = "access_token"
)

// RequireAdmin rejects requests without a valid admin access token, taken from
// the access_token cookie or a Bearer authorization header.
func RequireAdmin(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(accessTokenCookie); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing access token")
				return
			}

			admin, err := auth.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired access token")
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
