package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type scanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Store bundles every repository over one connection pool.
type Store struct {
	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Notifications NotificationRepository
	Trending      TrendingRepository
	Messages      MessageRepository
	Follows       FollowRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Notifications: NewNotificationRepository(db),
		Trending:      NewTrendingRepository(db),
		Messages:      NewMessageRepository(db),
		Follows:       NewFollowRepository(db),
	}
}
