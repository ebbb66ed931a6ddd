package domain

import (
	"context"
	"io"
)

// UserRepository — интерфейс для работы с пользователями
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// PostRepository — интерфейс для работы с постами
type PostRepository interface {
	CreatePost(ctx context.Context, post *Post) (*Post, error)
	GetPostByID(ctx context.Context, id int64) (*Post, error)
	// ListPosts возвращает посты вместе с автором и комментариями
	ListPosts(ctx context.Context) ([]Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// CommentRepository — интерфейс для работы с комментариями
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *Comment) (*Comment, error)
	GetCommentByID(ctx context.Context, id int64) (*Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// PasswordHasher — интерфейс для хеширования паролей
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenManager — интерфейс для выпуска и проверки bearer токенов
type TokenManager interface {
	Sign(username string) (string, error)
	ParseUsername(token string) (string, error)
}

// ImageStore — хранилище загруженных изображений
type ImageStore interface {
	// Save записывает содержимое под именем name и возвращает относительный путь
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
