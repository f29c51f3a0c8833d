package repository

import (
	"context"
	"database/sql"
	"errors"
)

type FollowRepository interface {
	// Create is idempotent: a repeated follow reports created=false.
	Create(ctx context.Context, followerID, followingID int) (created bool, err error)
	Delete(ctx context.Context, followerID, followingID int) (bool, error)
	CountFollowers(ctx context.Context, userID int) (int, error)
	CountFollowing(ctx context.Context, userID int) (int, error)
}

type followRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, followerID, followingID int) (bool, error) {
	var dummy int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
		RETURNING 1
	`, followerID, followingID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID).Scan(&n)
	return n, err
}
