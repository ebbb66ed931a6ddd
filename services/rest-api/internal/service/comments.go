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

type CommentService struct {
	comments domain.CommentRepository
	posts    domain.PostRepository
	users    domain.UserRepository
	now      func() time.Time
}

func NewCommentService(comments domain.CommentRepository, posts domain.PostRepository, users domain.UserRepository) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		now:      time.Now,
	}
}

// Create добавляет комментарий к существующему посту.
// Имя автора копируется в комментарий и дальше не меняется.
func (s *CommentService) Create(ctx context.Context, text string, authorID, postID int64) (*domain.Comment, error) {
	op := "CreateComment"

	if err := validator.ValidateComment(text); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	author, err := loadCaller(ctx, s.users, op, authorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return nil, status.Errorf(codes.NotFound, "no post with id %d", postID)
		}
		return nil, internalError(op, err)
	}

	comment, err := s.comments.CreateComment(ctx, &domain.Comment{
		Text:      text,
		Username:  author.Username,
		CreatedAt: s.now().UTC(),
		PostID:    postID,
	})
	// пост могли удалить между проверкой и вставкой
	if errors.Is(err, repo.ErrPostNotFound) {
		return nil, status.Errorf(codes.NotFound, "no post with id %d", postID)
	}
	if err != nil {
		return nil, internalError(op, err)
	}

	slog.Info("comment created", slog.String("op", op), slog.Int64("comment_id", comment.ID), slog.Int64("post_id", postID))
	return comment, nil
}

// ListForPost возвращает комментарии поста в порядке id
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	comments, err := s.comments.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, internalError("ListComments", err)
	}
	return comments, nil
}

// DeleteByID удаляет комментарий. Разрешено автору комментария, автору поста и админу.
func (s *CommentService) DeleteByID(ctx context.Context, commentID, callerID int64) error {
	op := "DeleteComment"

	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if errors.Is(err, repo.ErrCommentNotFound) {
		return status.Errorf(codes.NotFound, "no comment with id %d", commentID)
	}
	if err != nil {
		return internalError(op, err)
	}

	caller, err := loadCaller(ctx, s.users, op, callerID)
	if err != nil {
		return err
	}

	allowed := caller.Username == comment.Username ||
		caller.IsAdmin() ||
		s.isPostOwner(ctx, comment.PostID, caller.Username)
	if !allowed {
		slog.Warn("delete denied", slog.String("op", op), slog.Int64("comment_id", commentID), slog.Int64("caller_id", callerID))
		return status.Error(codes.Unauthenticated,
			"you are not authorized to delete this comment, contact the admin, the post owner or the comment owner")
	}

	err = s.comments.DeleteComment(ctx, commentID)
	if errors.Is(err, repo.ErrCommentNotFound) {
		return status.Errorf(codes.NotFound, "no comment with id %d", commentID)
	}
	if err != nil {
		return internalError(op, err)
	}

	slog.Info("comment deleted", slog.String("op", op), slog.Int64("comment_id", commentID), slog.Int64("by", callerID))
	return nil
}

// isPostOwner сообщает, принадлежит ли пост пользователю username.
// Любая ошибка при поиске поста или его автора означает отказ.
func (s *CommentService) isPostOwner(ctx context.Context, postID int64, username string) bool {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		slog.Warn("parent post lookup failed", slog.Int64("post_id", postID), slog.Any("error", err))
		return false
	}
	owner, err := s.users.GetUserByID(ctx, post.UserID)
	if err != nil {
		slog.Warn("post owner lookup failed", slog.Int64("post_id", postID), slog.Any("error", err))
		return false
	}
	return owner.Username == username
}
