package repository

import (
	"context"
	"database/sql"
	"errors"

	"connected/pkg/models"
)

type LikeRepository interface {
	// Create inserts the (post, user) like. created is false when the pair
	// already existed; the existing row is returned in that case.
	Create(ctx context.Context, postID, userID int) (like models.Like, created bool, err error)
	Delete(ctx context.Context, postID, userID int) (bool, error)
	CountByPost(ctx context.Context, postID int) (int, error)
	Exists(ctx context.Context, postID, userID int) (bool, error)
}

type likeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, postID, userID int) (models.Like, bool, error) {
	var l models.Like
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO likes (post_id, user_id) VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
		RETURNING id, post_id, user_id, created_at
	`, postID, userID).Scan(&l.ID, &l.PostID, &l.UserID, &l.CreatedAt)
	if err == nil {
		return l, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Like{}, false, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT id, post_id, user_id, created_at FROM likes
		WHERE post_id = $1 AND user_id = $2
	`, postID, userID).Scan(&l.ID, &l.PostID, &l.UserID, &l.CreatedAt)
	return l, false, notFound(err)
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID int) (bool, error) {
	var dummy int
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM likes WHERE post_id = $1 AND user_id = $2
		RETURNING 1
	`, postID, userID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *likeRepository) CountByPost(ctx context.Context, postID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)
	`, postID, userID).Scan(&exists)
	return exists, err
}
