package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connected/pkg/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestLikeCreateInsertsNewRow(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (post_id, user_id) DO NOTHING")).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "created_at"}).AddRow(1, 7, 3, now))

	like, created, err := NewLikeRepository(db).Create(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, like.ID)
}

func TestLikeCreateExistingPairIsNoop(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (post_id, user_id) DO NOTHING")).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, post_id, user_id, created_at FROM likes")).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "created_at"}).AddRow(4, 7, 3, now))

	like, created, err := NewLikeRepository(db).Create(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 4, like.ID)
}

func TestLikeDeleteMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM likes")).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	removed, err := NewLikeRepository(db).Delete(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTrendingIncrementUpserts(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (topic) DO UPDATE SET post_count = trending.post_count + 1")).
		WithArgs("#go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "post_count"}).AddRow(2, "#go", 5))

	topic, err := NewTrendingRepository(db).Increment(context.Background(), "#go")
	require.NoError(t, err)
	assert.Equal(t, models.TrendingTopic{ID: 2, Topic: "#go", PostCount: 5}, topic)
}

func TestTrendingTopOrdersByCount(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY post_count DESC, id ASC")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "post_count"}).
			AddRow(3, "#a", 9).
			AddRow(1, "#b", 4))

	topics, err := NewTrendingRepository(db).Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "#a", topics[0].Topic)
}

func TestPostDeleteNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM posts WHERE id = $1 RETURNING id")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	err := NewPostRepository(db).Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostSearchEscapesWildcards(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(content) LIKE $1")).
		WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "image_url", "original_post_id", "created_at"}))

	posts, err := NewPostRepository(db).Search(context.Background(), "100%")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := NewUserRepository(db).Create(context.Background(), models.User{Username: "ana"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestFollowCreateRepeated(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO follows")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	created, err := NewFollowRepository(db).Create(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestNotificationMarkReadMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = true")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewNotificationRepository(db).MarkRead(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageListBetweenOldestFirst(t *testing.T) {
	db, mock := newMock(t)
	t0 := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC, id ASC")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "content", "created_at", "read"}).
			AddRow(1, 1, 2, "hi", t0, false).
			AddRow(2, 2, 1, "hey", t0.Add(time.Second), false))

	msgs, err := NewMessageRepository(db).ListBetween(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
}
