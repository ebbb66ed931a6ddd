package handlers

import (
	"context"
	"net/http"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/middleware"
	"picshare/services/rest-api/internal/response"
	"picshare/services/rest-api/internal/service"
)

// UserManager — операции над пользователями
type UserManager interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	ListAll(ctx context.Context, callerID int64) ([]domain.User, error)
	DeleteByID(ctx context.Context, targetID, callerID int64) error
}

type UserHandler struct {
	users UserManager
}

func NewUserHandler(users UserManager) *UserHandler {
	return &UserHandler{users: users}
}

// SignUpRequest - тело запроса для регистрации
type SignUpRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	UserType *string `json:"user_type"`
}

// UserResponse - публичное представление пользователя
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		Username: u.Username,
		Email:    u.Email,
		UserType: u.Role.String(),
	}
}

// Create обрабатывает POST /user
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.UserType,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// List обрабатывает GET /user
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	users, err := h.users.ListAll(r.Context(), caller.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// Delete обрабатывает DELETE /user/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteByID(r.Context(), id, caller.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// callerOrReject достаёт пользователя из контекста. Без RequireAuth его там нет.
func callerOrReject(w http.ResponseWriter, r *http.Request) (*domain.Caller, bool) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, response.KindUnauthorized, "not authenticated")
		return nil, false
	}
	return caller, true
}
