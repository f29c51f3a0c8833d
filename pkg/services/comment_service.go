package services

import (
	"context"
	"strings"

	"connected/pkg/apperr"
	"connected/pkg/models"
	"connected/pkg/repository"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID, postID int, content string) (models.CommentWithUser, error)
	ListByPost(ctx context.Context, postID int) ([]models.CommentWithUser, error)
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	notify   NotificationService
}

func NewCommentService(store *repository.Store, notify NotificationService) CommentService {
	return &commentService{
		comments: store.Comments,
		posts:    store.Posts,
		users:    store.Users,
		notify:   notify,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, postID int, content string) (models.CommentWithUser, error) {
	if userID <= 0 {
		return models.CommentWithUser{}, apperr.Unauthorized("authentication required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.CommentWithUser{}, apperr.Validation("content is required")
	}
	if postID <= 0 {
		return models.CommentWithUser{}, apperr.NotFound("post not found")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.CommentWithUser{}, dbErr(err, "post not found")
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.CommentWithUser{}, dbErr(err, "user not found")
	}

	c, err := s.comments.Create(ctx, postID, userID, content)
	if err != nil {
		return models.CommentWithUser{}, dbErr(err, "")
	}

	s.notify.Emit(ctx, models.Notification{
		UserID:       post.UserID,
		SourceUserID: userID,
		Type:         models.NotificationComment,
		PostID:       &c.PostID,
	})

	return models.CommentWithUser{Comment: c, User: author}, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID int) ([]models.CommentWithUser, error) {
	if postID <= 0 {
		return nil, apperr.NotFound("post not found")
	}
	list, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, dbErr(err, "")
	}
	return list, nil
}
