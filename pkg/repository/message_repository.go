package repository

import (
	"context"
	"database/sql"

	"connected/pkg/models"
)

type MessageRepository interface {
	Create(ctx context.Context, senderID, receiverID int, content string) (models.Message, error)
	// ListForUser returns every message the user sent or received, newest first.
	ListForUser(ctx context.Context, userID int) ([]models.Message, error)
	// ListBetween returns the messages exchanged by the pair, oldest first.
	ListBetween(ctx context.Context, userID1, userID2 int) ([]models.Message, error)
}

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, sender_id, receiver_id, content, created_at, read`

func scanMessage(s scanner) (models.Message, error) {
	var m models.Message
	err := s.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &m.Read)
	return m, err
}

func (r *messageRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *messageRepository) Create(ctx context.Context, senderID, receiverID int, content string) (models.Message, error) {
	return scanMessage(r.db.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING `+messageColumns, senderID, receiverID, content))
}

func (r *messageRepository) ListForUser(ctx context.Context, userID int) ([]models.Message, error) {
	return r.queryMessages(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

func (r *messageRepository) ListBetween(ctx context.Context, userID1, userID2 int) ([]models.Message, error) {
	return r.queryMessages(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC
	`, userID1, userID2)
}
