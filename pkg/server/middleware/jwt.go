package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vaxlabs/vmvault/pkg/identity"
)

// JWTAuthenticator is middleware that validates bearer tokens against
// a shared HMAC secret.
type JWTAuthenticator struct {
	secret []byte
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(secret []byte) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret}
}

// Middleware returns an HTTP middleware that validates bearer tokens.
// A missing token rejects with 401; a token that fails verification
// rejects with 403. On success the decoded identity is placed in the
// request context.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			reject(w, http.StatusUnauthorized, "Unauthorized - No token provided.")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return j.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			reject(w, http.StatusForbidden, "Forbidden - Invalid token.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			reject(w, http.StatusForbidden, "Forbidden - Invalid token.")
			return
		}

		id := &identity.Identity{}
		if sub, ok := claims["id"].(string); ok {
			id.Subject = sub
		}
		if email, ok := claims["email"].(string); ok {
			id.Email = email
		}
		if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
			id.IssuedAt = iat.Time
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			id.ExpiresAt = exp.Time
		}

		r = r.WithContext(identity.Set(r.Context(), id))
		next.ServeHTTP(w, r)
	})
}

func reject(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
