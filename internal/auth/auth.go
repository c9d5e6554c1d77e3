// Package auth resolves the requesting user from a signed token. Handlers
// downstream only ever see the resolved user id in the request context; no
// other auth state crosses into the service or core layers.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "user_id"

var (
	ErrMissingToken = errors.New("missing auth token")
	ErrInvalidToken = errors.New("invalid auth token")
)

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the resolved user id. Exposed for
// handler tests that bypass the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Verifier validates HS256 tokens and extracts the subject.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Resolve validates a raw token and returns the user id it names. Both the
// standard `sub` claim and the legacy `userId` claim are accepted.
func (v *Verifier) Resolve(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if sub, _ := claims["sub"].(string); sub != "" {
		return sub, nil
	}
	if legacy, _ := claims["userId"].(string); legacy != "" {
		return legacy, nil
	}
	return "", ErrInvalidToken
}

// Middleware authenticates the request and stores the resolved user id in the
// context. Tokens are read from `Authorization: Bearer <token>` or the
// legacy `x-auth-token` header.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			unauthorized(w, "missing auth token")
			return
		}

		userID, err := v.Resolve(raw)
		if err != nil {
			slog.WarnContext(r.Context(), "Token rejected", "error", err, "path", r.URL.Path)
			unauthorized(w, "invalid auth token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
