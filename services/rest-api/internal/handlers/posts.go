package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/response"
	"picshare/services/rest-api/internal/service"
)

// PostManager — операции над постами
type PostManager interface {
	Create(ctx context.Context, in service.CreatePostInput, ownerID int64) (*domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	DeleteByID(ctx context.Context, postID, callerID int64) error
}

// ImageUploader сохраняет загруженные изображения
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type PostHandler struct {
	posts  PostManager
	images ImageUploader
}

func NewPostHandler(posts PostManager, images ImageUploader) *PostHandler {
	return &PostHandler{posts: posts, images: images}
}

// CreatePostRequest - тело запроса для создания поста
type CreatePostRequest struct {
	ImageURL     string `json:"image_url"`
	ImageURLType string `json:"image_url_type"`
	Caption      string `json:"caption"`
}

// PostOwner - автор поста в ответе
type PostOwner struct {
	Username string `json:"username"`
}

// PostResponse - пост с автором и комментариями
type PostResponse struct {
	ID           int64             `json:"id"`
	ImageURL     string            `json:"image_url"`
	ImageURLType string            `json:"image_url_type"`
	Caption      string            `json:"caption"`
	Timestamp    time.Time         `json:"timestamp"`
	User         PostOwner         `json:"user"`
	Comments     []CommentResponse `json:"comments"`
}

// UploadResponse - путь сохранённого файла
type UploadResponse struct {
	Filename string `json:"filename"`
}

func toPostResponse(p *domain.Post) PostResponse {
	comments := make([]CommentResponse, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, toCommentResponse(&p.Comments[i]))
	}
	return PostResponse{
		ID:           p.ID,
		ImageURL:     p.ImageURL,
		ImageURLType: p.ImageURLType.String(),
		Caption:      p.Caption,
		Timestamp:    p.CreatedAt,
		User:         PostOwner{Username: p.Owner},
		Comments:     comments,
	}
}

// Create обрабатывает POST /post
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.posts.Create(r.Context(), service.CreatePostInput{
		ImageURL:     req.ImageURL,
		ImageURLType: req.ImageURLType,
		Caption:      req.Caption,
	}, caller.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// новый пост ещё без комментариев, автор — вызывающий
	post.Owner = caller.Username
	respondJSON(w, http.StatusCreated, toPostResponse(post))
}

// List обрабатывает GET /post
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// Delete обрабатывает DELETE /post/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.posts.DeleteByID(r.Context(), id, caller.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage обрабатывает POST /post/image.
// Файл читается потоком из части "image" multipart формы.
func (h *PostHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerOrReject(w, r); !ok {
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, response.KindBadRequest, "multipart form expected")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("failed to read multipart", "error", err)
			respondError(w, http.StatusBadRequest, response.KindBadRequest, "invalid multipart body")
			return
		}
		if part.FormName() != "image" || part.FileName() == "" {
			part.Close()
			continue
		}

		path, err := h.images.Upload(r.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			handleServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, UploadResponse{Filename: path})
		return
	}

	respondError(w, http.StatusBadRequest, response.KindBadRequest, "image file is required")
}
