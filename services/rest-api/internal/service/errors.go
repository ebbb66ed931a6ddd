package service

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/repo"
)

// internalError логирует причину и возвращает клиенту обезличенную ошибку
func internalError(op string, err error) error {
	slog.Error("internal error", slog.String("op", op), slog.Any("error", err))
	return status.Error(codes.Internal, "internal error")
}

// loadCaller перечитывает пользователя текущего запроса.
// Если его уже удалили, запрос считается неаутентифицированным.
func loadCaller(ctx context.Context, users domain.UserRepository, op string, callerID int64) (*domain.User, error) {
	caller, err := users.GetUserByID(ctx, callerID)
	if errors.Is(err, repo.ErrUserNotFound) {
		slog.Warn("caller not found", slog.String("op", op), slog.Int64("caller_id", callerID))
		return nil, status.Error(codes.Unauthenticated, "could not validate credentials")
	}
	if err != nil {
		return nil, internalError(op, err)
	}
	return caller, nil
}
