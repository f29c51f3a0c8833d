package repository

import (
	"context"
	"database/sql"
	"strings"

	"connected/pkg/models"
)

type PostRepository interface {
	Create(ctx context.Context, userID int, content string, imageURL *string, originalPostID *int) (models.Post, error)
	GetByID(ctx context.Context, id int) (models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	// ListByUser returns the user's posts newest first; limit <= 0 means all.
	ListByUser(ctx context.Context, userID, limit int) ([]models.Post, error)
	Search(ctx context.Context, query string) ([]models.Post, error)
	UpdateContent(ctx context.Context, id int, content string) (models.Post, error)
	// Delete removes the post; comments, likes, notifications and reposts
	// pointing at it go with it through ON DELETE CASCADE.
	Delete(ctx context.Context, id int) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, content, image_url, original_post_id, created_at`

func scanPost(s scanner) (models.Post, error) {
	var p models.Post
	err := s.Scan(&p.ID, &p.UserID, &p.Content, &p.ImageURL, &p.OriginalPostID, &p.CreatedAt)
	return p, err
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postRepository) Create(ctx context.Context, userID int, content string, imageURL *string, originalPostID *int) (models.Post, error) {
	return scanPost(r.db.QueryRowContext(ctx, `
		INSERT INTO posts (user_id, content, image_url, original_post_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns, userID, content, imageURL, originalPostID))
}

func (r *postRepository) GetByID(ctx context.Context, id int) (models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	return p, notFound(err)
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.queryPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
}

func (r *postRepository) ListByUser(ctx context.Context, userID, limit int) ([]models.Post, error) {
	if limit > 0 {
		return r.queryPosts(ctx, `
			SELECT `+postColumns+` FROM posts WHERE user_id = $1
			ORDER BY created_at DESC, id DESC LIMIT $2`, userID, limit)
	}
	return r.queryPosts(ctx, `
		SELECT `+postColumns+` FROM posts WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
}

func (r *postRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return r.queryPosts(ctx, `
		SELECT `+postColumns+` FROM posts WHERE LOWER(content) LIKE $1 ESCAPE '\'
		ORDER BY created_at DESC, id DESC`, pattern)
}

func (r *postRepository) UpdateContent(ctx context.Context, id int, content string) (models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `
		UPDATE posts SET content = $2 WHERE id = $1
		RETURNING `+postColumns, id, content))
	return p, notFound(err)
}

func (r *postRepository) Delete(ctx context.Context, id int) error {
	var deletedID int
	err := r.db.QueryRowContext(ctx, `DELETE FROM posts WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
	return notFound(err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
