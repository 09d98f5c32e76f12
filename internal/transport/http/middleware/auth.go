package middleware

import (
	"context"
	"net/http"
	"strings"

	"timetrack/internal/domain/auth"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// TokenCookie carries the session token for browser clients; API clients may
// send the same token as a bearer header instead.
const TokenCookie = "token"

// Auth resolves the request credential to a verified user reference and
// stashes it in the context. Requests without a valid token pass through
// anonymously; route-level guards decide what requires identity.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if cookie, err := r.Cookie(TokenCookie); err == nil {
					tokenString = cookie.Value
				}
			}
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, tokenString)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, auth.UserContext{
				UserID: claims.UserID,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
