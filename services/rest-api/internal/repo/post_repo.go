package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"picshare/services/rest-api/internal/domain"
)

type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

const postSelect = `
	SELECT p.id, p.image_url, p.image_url_type, p.caption, p.created_at, p.user_id, u.username
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

func scanPost(row rowScanner) (*domain.Post, error) {
	var post domain.Post
	err := row.Scan(
		&post.ID,
		&post.ImageURL,
		&post.ImageURLType,
		&post.Caption,
		&post.CreatedAt,
		&post.UserID,
		&post.Owner,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepo) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	query := `
		INSERT INTO posts (image_url, image_url_type, caption, created_at, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		post.ImageURL, post.ImageURLType, post.Caption, post.CreatedAt, post.UserID,
	).Scan(&post.ID)
	if isForeignKeyViolation(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (r *PostRepo) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// ListPosts возвращает все посты с именем автора и комментариями.
// Комментарии загружаются одним запросом по списку id постов.
func (r *PostRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.Comments = []domain.Comment{}
		index[post.ID] = len(posts)
		ids = append(ids, post.ID)
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	if len(ids) == 0 {
		return posts, nil
	}

	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = ANY($1) ORDER BY id`
	crows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list post comments: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		comment, err := scanComment(crows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if i, ok := index[comment.PostID]; ok {
			posts[i].Comments = append(posts[i].Comments, *comment)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list post comments: %w", err)
	}

	return posts, nil
}

// DeletePost удаляет пост; комментарии удаляются каскадно (ON DELETE CASCADE)
func (r *PostRepo) DeletePost(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectAffected(res, ErrPostNotFound)
}
