package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/salescribe/salescribe-server/internal/api/http/request"
	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
)

// Authenticate verifies the bearer token on staff routes and injects the
// decoded identity into the request context.
type Authenticate struct {
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewAuthenticate(tokenManager model.TokenManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokenManager: tokenManager,
		logger:       logger,
	}
}

func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, model.ErrTokenMissing)
			return
		}

		identity, err := m.tokenManager.Parse(token)
		if err != nil {
			m.logger.Info("authentication failed",
				"path", r.URL.Path,
				"error", err.Error())
			if errors.Is(err, model.ErrTokenExpired) {
				writeAuthError(w, http.StatusUnauthorized, err)
				return
			}
			writeAuthError(w, http.StatusForbidden, model.ErrTokenInvalid)
			return
		}

		ctx := request.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from an Authorization header. Empty string
// means no usable bearer credential was presented.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeAuthError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + err.Error() + `"}`))
}
