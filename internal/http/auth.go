package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tempo/internal/core"
)

// TokenResolver turns an opaque API token into an identity. Backed by the
// users store in production.
type TokenResolver interface {
	GetUserByToken(ctx context.Context, token string) (*core.User, error)
}

type contextKey string

const userContextKey contextKey = "user"

// withAuth resolves the bearer token and stores the caller identity in the
// request context. Missing, malformed or unknown tokens are all 401; the API
// never distinguishes between them.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, r, core.ErrUnauthorized)
			return
		}

		user, err := s.tokens.GetUserByToken(r.Context(), token)
		if err != nil {
			if !errors.Is(err, core.ErrNotFound) {
				slog.ErrorContext(r.Context(), "Token lookup failed", "error", err)
			}
			writeError(w, r, core.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// userFrom returns the authenticated caller placed by withAuth.
func userFrom(ctx context.Context) (*core.User, bool) {
	user, ok := ctx.Value(userContextKey).(*core.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
