package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/repo"
	"picshare/services/rest-api/internal/validator"
)

type PostService struct {
	posts domain.PostRepository
	users domain.UserRepository
	now   func() time.Time
}

func NewPostService(posts domain.PostRepository, users domain.UserRepository) *PostService {
	return &PostService{
		posts: posts,
		users: users,
		now:   time.Now,
	}
}

// CreatePostInput — данные нового поста в том виде, в каком их прислал клиент
type CreatePostInput struct {
	ImageURL     string
	ImageURLType string
	Caption      string
}

// Create создаёт пост. Заявленный вид ссылки должен совпадать с её формой,
// у относительных ссылок проверяется расширение файла.
func (s *PostService) Create(ctx context.Context, in CreatePostInput, ownerID int64) (*domain.Post, error) {
	op := "CreatePost"

	declared, err := domain.ParseImageURLType(in.ImageURLType)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "image url type must be of type absolute or relative")
	}

	kind := domain.ImageURLTypeOf(in.ImageURL)
	if declared != kind {
		return nil, status.Error(codes.InvalidArgument, "kindly verify image_url_type")
	}

	if kind == domain.ImageRelative {
		if _, err := validator.ImageExtension(in.ImageURL); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	post, err := s.posts.CreatePost(ctx, &domain.Post{
		ImageURL:     in.ImageURL,
		ImageURLType: kind,
		Caption:      in.Caption,
		CreatedAt:    s.now().UTC(),
		UserID:       ownerID,
	})
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, status.Error(codes.Unauthenticated, "could not validate credentials")
	}
	if err != nil {
		return nil, internalError(op, err)
	}

	slog.Info("post created", slog.String("op", op), slog.Int64("post_id", post.ID), slog.Int64("user_id", ownerID))
	return post, nil
}

// ListAll возвращает все посты с авторами и комментариями
func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, internalError("ListPosts", err)
	}
	return posts, nil
}

// DeleteByID удаляет пост, если вызывающий — его автор или админ
func (s *PostService) DeleteByID(ctx context.Context, postID, callerID int64) error {
	op := "DeletePost"

	post, err := s.posts.GetPostByID(ctx, postID)
	if errors.Is(err, repo.ErrPostNotFound) {
		return status.Errorf(codes.NotFound, "no post with id %d", postID)
	}
	if err != nil {
		return internalError(op, err)
	}

	caller, err := loadCaller(ctx, s.users, op, callerID)
	if err != nil {
		return err
	}

	if post.UserID != caller.ID && !caller.IsAdmin() {
		slog.Warn("delete denied", slog.String("op", op), slog.Int64("post_id", postID), slog.Int64("caller_id", callerID))
		return status.Error(codes.Unauthenticated, "you can only delete the post you create")
	}

	err = s.posts.DeletePost(ctx, postID)
	if errors.Is(err, repo.ErrPostNotFound) {
		return status.Errorf(codes.NotFound, "no post with id %d", postID)
	}
	if err != nil {
		return internalError(op, err)
	}

	slog.Info("post deleted", slog.String("op", op), slog.Int64("post_id", postID), slog.Int64("by", callerID))
	return nil
}
