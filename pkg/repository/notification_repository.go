package repository

import (
	"context"
	"database/sql"

	"connected/pkg/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	GetByID(ctx context.Context, id int) (models.Notification, error)
	ListByUser(ctx context.Context, userID int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, source_user_id, type, post_id, read, created_at`

func scanNotification(s scanner) (models.Notification, error) {
	var n models.Notification
	err := s.Scan(&n.ID, &n.UserID, &n.SourceUserID, &n.Type, &n.PostID, &n.Read, &n.CreatedAt)
	return n, err
}

func (r *notificationRepository) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	return scanNotification(r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, source_user_id, type, post_id, read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING `+notificationColumns, n.UserID, n.SourceUserID, n.Type, n.PostID))
}

func (r *notificationRepository) GetByID(ctx context.Context, id int) (models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	return n, notFound(err)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
