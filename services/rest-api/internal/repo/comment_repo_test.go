package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picshare/services/rest-api/internal/domain"
)

func TestCommentRepo_CreateComment(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCommentRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO comments").
		WithArgs("cute!", "bob", now, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	c, err := r.CreateComment(context.Background(), &domain.Comment{
		Text: "cute!", Username: "bob", CreatedAt: now, PostID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}

func TestCommentRepo_CreateComment_PostMissing(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCommentRepo(db)

	mock.ExpectQuery("INSERT INTO comments").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "comments_post_id_fkey"})

	_, err := r.CreateComment(context.Background(), &domain.Comment{Text: "x", PostID: 404})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentRepo_GetCommentByID(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCommentRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM comments WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(commentCols).AddRow(int64(3), "cute!", "bob", now, int64(1)))
	mock.ExpectQuery("FROM comments WHERE id").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(commentCols))

	c, err := r.GetCommentByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Username)
	assert.Equal(t, int64(1), c.PostID)

	_, err = r.GetCommentByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentRepo_ListCommentsByPost(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCommentRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM comments WHERE post_id = \\$1 ORDER BY id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(int64(1), "first", "bob", now, int64(1)).
			AddRow(int64(2), "second", "alice", now, int64(1)))

	comments, err := r.ListCommentsByPost(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestCommentRepo_DeleteComment(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCommentRepo(db)

	mock.ExpectExec("DELETE FROM comments").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM comments").WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.DeleteComment(context.Background(), 3))
	assert.ErrorIs(t, r.DeleteComment(context.Background(), 4), ErrCommentNotFound)
}
