package services

import (
	"context"
	"strings"

	"connected/pkg/apperr"
	"connected/pkg/models"
	"connected/pkg/repository"
)

type MessageService interface {
	SendMessage(ctx context.Context, senderID, receiverID int, content string) (models.Message, error)
	// ListConversations returns one entry per counterparty, most recent first.
	ListConversations(ctx context.Context, userID int) ([]models.Conversation, error)
	// ListConversationMessages returns the pair's messages oldest first.
	ListConversationMessages(ctx context.Context, userID, otherID int) ([]models.Message, error)
}

type messageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
}

func NewMessageService(store *repository.Store) MessageService {
	return &messageService{messages: store.Messages, users: store.Users}
}

func (s *messageService) SendMessage(ctx context.Context, senderID, receiverID int, content string) (models.Message, error) {
	if senderID <= 0 {
		return models.Message{}, apperr.Unauthorized("authentication required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, apperr.Validation("content is required")
	}
	if receiverID == senderID {
		return models.Message{}, apperr.Validation("cannot message yourself")
	}
	if receiverID <= 0 {
		return models.Message{}, apperr.NotFound("receiver not found")
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return models.Message{}, dbErr(err, "receiver not found")
	}

	m, err := s.messages.Create(ctx, senderID, receiverID, content)
	if err != nil {
		return models.Message{}, dbErr(err, "")
	}
	return m, nil
}

func (s *messageService) ListConversations(ctx context.Context, userID int) ([]models.Conversation, error) {
	if userID <= 0 {
		return nil, apperr.Unauthorized("authentication required")
	}
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, dbErr(err, "")
	}

	seen := make(map[int]bool)
	conversations := []models.Conversation{}
	for _, m := range msgs {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		if seen[other] {
			continue
		}
		seen[other] = true

		c := models.Conversation{UserID: other, LastMessage: m}
		u, err := s.users.GetByID(ctx, other)
		switch {
		case err == nil:
			c.User = &u
		case !isNotFound(err):
			return nil, dbErr(err, "")
		}
		conversations = append(conversations, c)
	}
	return conversations, nil
}

func (s *messageService) ListConversationMessages(ctx context.Context, userID, otherID int) ([]models.Message, error) {
	if userID <= 0 {
		return nil, apperr.Unauthorized("authentication required")
	}
	if otherID <= 0 {
		return nil, apperr.NotFound("user not found")
	}
	msgs, err := s.messages.ListBetween(ctx, userID, otherID)
	if err != nil {
		return nil, dbErr(err, "")
	}
	return msgs, nil
}
