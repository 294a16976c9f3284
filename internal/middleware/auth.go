// Package middleware ...
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type requesterKey struct{}

// Auth verifies the bearer token and resolves the requester id into the
// request context. Requests with an absent or invalid token get 401.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeUnauthorized(w)
				return
			}

			var claims jwt.RegisteredClaims
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(h, "Bearer "), &claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
				}
				return secret, nil
			})

			if err != nil || !token.Valid || claims.Subject == "" {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requesterKey{}, claims.Subject)))
		})
	}
}

// RequesterID returns the requester id resolved by Auth, empty string for
// unauthenticated requests.
func RequesterID(ctx context.Context) string {
	v, _ := ctx.Value(requesterKey{}).(string)
	return v
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"notauthorized": "invalid or missing token"})
}
