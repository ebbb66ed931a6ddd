package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/repo"
	"picshare/services/rest-api/internal/validator"
)

type UserService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	now    func() time.Time
}

func NewUserService(users domain.UserRepository, hasher domain.PasswordHasher) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		now:    time.Now,
	}
}

// RegisterInput — данные регистрации. Role == nil означает роль по умолчанию.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     *string
}

// Register регистрирует нового пользователя
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	op := "Register"

	slog.Info("sign up attempt", slog.String("op", op), slog.String("username", in.Username))

	// Валидация
	if err := validator.ValidateUsername(in.Username); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validator.ValidatePassword(in.Password, in.Username); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validator.ValidateEmail(in.Email); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	role := domain.RoleUser
	if in.Role != nil {
		parsed, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "user type must be either admin or user")
		}
		role = parsed
	}

	passHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internalError(op, err)
	}

	user, err := s.users.CreateUser(ctx, &domain.User{
		Username:  strings.ToLower(in.Username),
		Email:     strings.ToLower(in.Email),
		PassHash:  passHash,
		Role:      role,
		CreatedAt: s.now().UTC(),
	})
	if errors.Is(err, repo.ErrUserExists) {
		slog.Warn("user already exists", slog.String("op", op), slog.String("username", in.Username))
		return nil, status.Errorf(codes.AlreadyExists,
			"user with username %s or email %s already exists", in.Username, in.Email)
	}
	if err != nil {
		return nil, internalError(op, err)
	}

	slog.Info("user created", slog.String("op", op), slog.Int64("user_id", user.ID), slog.String("role", role.String()))

	return user, nil
}

// ListAll возвращает всех пользователей, только для админа
func (s *UserService) ListAll(ctx context.Context, callerID int64) ([]domain.User, error) {
	op := "ListAllUsers"

	caller, err := loadCaller(ctx, s.users, op, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, "you are not authorized to this information")
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, internalError(op, err)
	}
	return users, nil
}

// DeleteByID удаляет пользователя. Удалять может только админ, админов удалять нельзя.
func (s *UserService) DeleteByID(ctx context.Context, targetID, callerID int64) error {
	op := "DeleteUser"

	caller, err := loadCaller(ctx, s.users, op, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return status.Error(codes.PermissionDenied, "you have no authority to delete any user")
	}

	target, err := s.users.GetUserByID(ctx, targetID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return status.Errorf(codes.NotFound, "no user with id %d", targetID)
	}
	if err != nil {
		return internalError(op, err)
	}
	if target.IsAdmin() {
		return status.Error(codes.PermissionDenied, "you are not allowed to delete an admin")
	}

	err = s.users.DeleteUser(ctx, targetID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return status.Errorf(codes.NotFound, "no user with id %d", targetID)
	}
	if err != nil {
		return internalError(op, err)
	}

	slog.Info("user deleted", slog.String("op", op), slog.Int64("user_id", targetID), slog.Int64("by", callerID))
	return nil
}

// FindByUsername ищет пользователя по имени (без учёта регистра)
func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	op := "FindByUsername"

	user, err := s.users.GetUserByUsername(ctx, strings.ToLower(username))
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, status.Errorf(codes.NotFound, "no user with username: %s registered", username)
	}
	if err != nil {
		return nil, internalError(op, err)
	}
	return user, nil
}
