package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/repo"
)

type AuthService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens domain.TokenManager
}

func NewAuthService(users domain.UserRepository, hasher domain.PasswordHasher, tokens domain.TokenManager) *AuthService {
	slog.Info("creating auth service")
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// LoginResult — выданный токен и краткие данные пользователя
type LoginResult struct {
	AccessToken string
	TokenType   string
	UserID      int64
	Username    string
	Role        domain.Role
}

// Login аутентифицирует пользователя по имени и паролю
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	op := "Login"
	username = strings.ToLower(username)

	slog.Info("sign in attempt", slog.String("op", op), slog.String("username", username))

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		slog.Warn("user not found", slog.String("op", op), slog.String("username", username))
		return nil, status.Error(codes.NotFound, "invalid username")
	}
	if err != nil {
		return nil, internalError(op, err)
	}

	valid, err := s.hasher.Verify(password, user.PassHash)
	if err != nil {
		return nil, internalError(op, err)
	}
	if !valid {
		slog.Warn("invalid password", slog.String("op", op), slog.String("username", username))
		return nil, status.Error(codes.PermissionDenied, "incorrect password")
	}

	token, err := s.tokens.Sign(user.Username)
	if err != nil {
		return nil, internalError(op, err)
	}

	slog.Info("user signed in", slog.String("op", op), slog.Int64("user_id", user.ID))

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
	}, nil
}

// ResolveCaller проверяет токен и перечитывает пользователя из БД.
// Из токена берётся только имя, id и email всегда актуальные.
func (s *AuthService) ResolveCaller(ctx context.Context, token string) (*domain.Caller, error) {
	op := "ResolveCaller"

	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "could not validate credentials")
	}

	username, err := s.tokens.ParseUsername(token)
	if err != nil {
		slog.Warn("invalid token", slog.String("op", op), slog.Any("error", err))
		return nil, status.Error(codes.Unauthenticated, "could not validate credentials")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		slog.Warn("token user no longer exists", slog.String("op", op), slog.String("username", username))
		return nil, status.Error(codes.Unauthenticated, "could not validate credentials")
	}
	if err != nil {
		return nil, internalError(op, err)
	}

	return &domain.Caller{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
