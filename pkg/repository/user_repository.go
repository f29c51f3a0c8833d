package repository

import (
	"context"
	"database/sql"
	"strings"

	"connected/pkg/models"
)

type UserRepository interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetProfileImage(ctx context.Context, id int, url string) (models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, password, display_name, avatar_color, avatar_initial, profile_image_url, is_verified`

func scanUser(s scanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Username, &u.Password, &u.DisplayName, &u.AvatarColor, &u.AvatarInitial, &u.ProfileImageURL, &u.IsVerified)
	return u, err
}

func (r *userRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password, display_name, avatar_color, avatar_initial, profile_image_url, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		strings.TrimSpace(u.Username), u.Password, u.DisplayName, u.AvatarColor, u.AvatarInitial, u.ProfileImageURL, u.IsVerified,
	)
	created, err := scanUser(row)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicate
	}
	return created, err
}

func (r *userRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, notFound(err)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	return u, notFound(err)
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) SetProfileImage(ctx context.Context, id int, url string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users SET profile_image_url = $2 WHERE id = $1
		RETURNING `+userColumns, id, url))
	return u, notFound(err)
}
