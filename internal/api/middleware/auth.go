// Package middleware provides HTTP middleware for request authentication,
// logging and rate limiting.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/response"
)

type contextKey string

const userIDKey contextKey = "userID"

// Auth resolves the caller's identity from a Bearer token and places the
// user id into the request context. Tokens are HS256-signed with the
// configured secret; the subject claim carries the user id. Requests
// without a valid token are rejected with 401.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.RespondError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				response.RespondError(w, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			userID, err := token.Claims.GetSubject()
			if err != nil || userID == "" {
				response.RespondError(w, http.StatusUnauthorized, "token has no subject", nil)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id from the request context.
// ok is false when the request did not pass through Auth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given user id. Intended for
// tests that call handlers without the Auth middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
