package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/response"
)

type contextKey string

const callerKey contextKey = "caller"

// CallerResolver проверяет токен и возвращает пользователя запроса
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (*domain.Caller, error)
}

// Auth — middleware для bearer аутентификации
type Auth struct {
	resolver CallerResolver
}

func NewAuth(resolver CallerResolver) *Auth {
	return &Auth{resolver: resolver}
}

// RequireAuth пропускает запрос дальше только с валидным токеном
// и кладёт вызывающего пользователя в контекст.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, response.KindUnauthorized, "not authenticated")
			return
		}

		caller, err := a.resolver.ResolveCaller(r.Context(), token)
		if err != nil {
			if status.Code(err) == codes.Unauthenticated {
				slog.Warn("auth failure",
					"ip", r.RemoteAddr,
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusUnauthorized, response.KindUnauthorized, status.Convert(err).Message())
				return
			}
			response.Error(w, http.StatusInternalServerError, response.KindInternal, "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// bearerToken достаёт токен из заголовка Authorization
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithCaller кладёт пользователя в контекст (используется и в тестах)
func WithCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom возвращает пользователя, положенного RequireAuth
func CallerFrom(ctx context.Context) (*domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(*domain.Caller)
	return caller, ok && caller != nil
}
