package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"picshare/services/rest-api/internal/response"
)

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	response.JSON(w, statusCode, data)
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, statusCode int, kind, message string) {
	response.Error(w, statusCode, kind, message)
}

// handleServiceError конвертирует gRPC ошибку сервиса в HTTP статус
func handleServiceError(w http.ResponseWriter, err error) {
	st, ok := status.FromError(err)
	if !ok {
		slog.Error("unexpected service error", "error", err)
		respondError(w, http.StatusInternalServerError, response.KindInternal, "internal error")
		return
	}

	var httpStatus int
	var kind string
	switch st.Code() {
	case codes.InvalidArgument:
		httpStatus, kind = http.StatusBadRequest, response.KindBadRequest
	case codes.NotFound:
		httpStatus, kind = http.StatusNotFound, response.KindNotFound
	case codes.AlreadyExists:
		httpStatus, kind = http.StatusConflict, response.KindConflict
	case codes.Unauthenticated:
		httpStatus, kind = http.StatusUnauthorized, response.KindUnauthorized
	case codes.PermissionDenied:
		httpStatus, kind = http.StatusForbidden, response.KindForbidden
	default:
		respondError(w, http.StatusInternalServerError, response.KindInternal, "internal error")
		return
	}

	respondError(w, httpStatus, kind, st.Message())
}

// idParam читает числовой параметр пути
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, response.KindBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// decodeJSON разбирает тело запроса, при ошибке отвечает 400
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Warn("failed to decode request", "error", err)
		respondError(w, http.StatusBadRequest, response.KindBadRequest, "invalid request body")
		return false
	}
	return true
}
