package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/Barber-BookingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenVerifier интерфейс проверки bearer токена, возвращает id пользователя
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// UserID достает id аутентифицированного пользователя из контекста запроса
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// Auth отклоняет запросы без валидного bearer токена и кладёт
// резолвленный id пользователя в контекст запроса
func Auth(verifier TokenVerifier, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				handlers.RespondUnauthorized(w, "missing bearer token")
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("%s %s - invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth резолвит id пользователя при валидном токене и пропускает
// запрос в любом случае. Используется эндпоинтами, которые публичны, но
// для вошедших пользователей отвечают богаче
func OptionalAuth(verifier TokenVerifier, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if userID, err := verifier.Verify(token); err == nil {
					r = r.WithContext(WithUserID(r.Context(), userID))
				} else {
					logger.Warn("%s %s - ignoring invalid token: %v", r.Method, r.URL.Path, err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUserID возвращает контекст с id аутентифицированного пользователя
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
