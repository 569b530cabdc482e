package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/identity/session"
)

type userIDKey struct{}

// SessionMiddleware authenticates requests with bearer session tokens.
type SessionMiddleware struct {
	sessions session.Store
	logger   *slog.Logger
}

// NewSessionMiddleware creates middleware backed by the given session store.
func NewSessionMiddleware(sessions session.Store, logger *slog.Logger) *SessionMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionMiddleware{sessions: sessions, logger: logger}
}

// Require wraps a handler so it only runs with a valid session. The
// resolved user ID is placed on the request context.
func (m *SessionMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			m.logger.Debug("session rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next(w, r.WithContext(ctx))
	}
}

// UserIDFromContext returns the authenticated user ID set by Require.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok
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
