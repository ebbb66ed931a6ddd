// Package response пишет JSON ответы API в едином формате.
// Им пользуются и обработчики, и middleware.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Виды ошибок в поле error ответа
const (
	KindBadRequest      = "BadRequest"
	KindUnauthorized    = "Unauthorized"
	KindForbidden       = "Forbidden"
	KindConflict        = "Conflict"
	KindNotFound        = "NotFound"
	KindTooManyRequests = "TooManyRequests"
	KindInternal        = "Internal"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON отправляет JSON ответ
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error отправляет JSON ответ с ошибкой. На 401 добавляет Bearer challenge.
func Error(w http.ResponseWriter, statusCode int, kind, message string) {
	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	JSON(w, statusCode, ErrorResponse{Error: kind, Message: message})
}
