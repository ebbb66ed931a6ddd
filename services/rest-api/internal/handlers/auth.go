package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"picshare/services/rest-api/internal/response"
	"picshare/services/rest-api/internal/service"
)

// Authenticator выдаёт токены по логину и паролю
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
}

// AuthHandler обрабатывает HTTP запросы для аутентификации
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler создаёт новый обработчик для аутентификации
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest - тело запроса для входа (JSON вариант)
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse - тело ответа для входа
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	UserType    string `json:"user_type"`
}

// Login обрабатывает POST /login.
// Принимает OAuth2 password форму или JSON.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if !decodeJSON(w, r, &req) {
			return
		}
	} else {
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			respondError(w, http.StatusBadRequest, response.KindBadRequest, "invalid form")
			return
		}
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, response.KindBadRequest, "username and password are required")
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		UserID:      res.UserID,
		Username:    res.Username,
		UserType:    res.Role.String(),
	})
}
