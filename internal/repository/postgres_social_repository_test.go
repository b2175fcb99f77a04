package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"novel-reader/internal/domain"
	"novel-reader/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (domain.SocialRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSocialRepository(db, logger.NewNop()), mock
}

func TestPostgresSocialRepository_Likes(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM likes`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM likes WHERE visitor_id = $1)`)).
		WithArgs("v-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes (visitor_id) VALUES ($1) ON CONFLICT (visitor_id) DO NOTHING`)).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM likes WHERE visitor_id = $1`)).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := repo.CountLikes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	liked, err := repo.HasLiked(ctx, "v-1")
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, repo.AddLike(ctx, "v-1"))
	require.NoError(t, repo.RemoveLike(ctx, "v-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSocialRepository_ListComments(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id::text, user_name, comment_text, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_name", "comment_text", "created_at", "visitor_id"}).
			AddRow("2", "Ada", "Lovely", newer, "v-1").
			AddRow("1", "Reader #123", "First!", older, ""))

	comments, err := repo.ListComments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "2", comments[0].ID)
	assert.Equal(t, "Lovely", comments[0].Text)
	assert.Equal(t, newer, comments[0].CreatedAt)
	assert.Empty(t, comments[1].VisitorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSocialRepository_CreateComment(t *testing.T) {
	repo, mock := newMockRepo(t)
	stamp := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs("Ada", "hello", "v-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("42", stamp))

	created, err := repo.CreateComment(context.Background(), &domain.Comment{
		UserName:  "Ada",
		Text:      "hel\x00lo",
		VisitorID: "v-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)
	assert.Equal(t, "hello", created.Text)
	assert.Equal(t, stamp, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSocialRepository_DeleteComment(t *testing.T) {
	repo, mock := newMockRepo(t)
	query := regexp.QuoteMeta(`DELETE FROM comments WHERE id::text = $1 AND visitor_id = $2`)

	mock.ExpectExec(query).WithArgs("42", "v-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("42", "v-2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteComment(context.Background(), "42", "v-1"))
	err := repo.DeleteComment(context.Background(), "42", "v-2")
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSocialRepository_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(boom)

	_, err := repo.CountLikes(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestOpenPostgres_RequiresURL(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "", logger.NewNop())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
