package repository

import (
	"context"
	"database/sql"

	"connected/pkg/models"
)

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int, content string) (models.Comment, error)
	// ListByPost returns the post's comments with their authors, newest first.
	ListByPost(ctx context.Context, postID int) ([]models.CommentWithUser, error)
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, postID, userID int, content string) (models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, content, created_at
	`, postID, userID, content).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
	return c, err
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int) ([]models.CommentWithUser, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.id, u.username, u.password, u.display_name, u.avatar_color, u.avatar_initial, u.profile_image_url, u.is_verified
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.CommentWithUser{}
	for rows.Next() {
		var c models.CommentWithUser
		u := &c.User
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt,
			&u.ID, &u.Username, &u.Password, &u.DisplayName, &u.AvatarColor, &u.AvatarInitial, &u.ProfileImageURL, &u.IsVerified,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
