package handlers

import (
	"context"
	"net/http"
	"time"

	"picshare/services/rest-api/internal/domain"
)

// CommentManager — операции над комментариями
type CommentManager interface {
	Create(ctx context.Context, text string, authorID, postID int64) (*domain.Comment, error)
	ListForPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	DeleteByID(ctx context.Context, commentID, callerID int64) error
}

type CommentHandler struct {
	comments CommentManager
}

func NewCommentHandler(comments CommentManager) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CreateCommentRequest - тело запроса для комментария
type CreateCommentRequest struct {
	Comment string `json:"comment"`
}

// CommentResponse - комментарий в ответе
type CommentResponse struct {
	ID        int64     `json:"id"`
	Comment   string    `json:"comment"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Comment:   c.Text,
		Username:  c.Username,
		Timestamp: c.CreatedAt,
	}
}

// Create обрабатывает POST /comment/{post_id}
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	postID, ok := idParam(w, r, "post_id")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.comments.Create(r.Context(), req.Comment, caller.ID, postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// List обрабатывает GET /comment/{post_id}
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(w, r, "post_id")
	if !ok {
		return
	}

	comments, err := h.comments.ListForPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// Delete обрабатывает DELETE /comment/{comment_id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "comment_id")
	if !ok {
		return
	}

	if err := h.comments.DeleteByID(r.Context(), id, caller.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
