package middleware

import (
	"net/http"
	"strings"

	"github.com/curtail/curtail/internal/auth"
)

const bearerPrefix = "Bearer "

// unauthorizedBody is the fixed response for every authentication
// failure. Missing header, malformed token, bad signature, and expiry
// all look the same to the caller.
const unauthorizedBody = `{"error":"Authentication required","code":"UNAUTHORIZED"}`

// Authenticate verifies the bearer token on incoming requests and
// injects the caller's identity into the request context. Requests
// without a valid token are rejected with 401.
func Authenticate(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				writeUnauthorized(w)
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if tokenString == "" {
				writeUnauthorized(w)
				return
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
