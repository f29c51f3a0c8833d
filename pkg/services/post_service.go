package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"connected/pkg/apperr"
	"connected/pkg/models"
	"connected/pkg/repository"
)

// repostDepth bounds original-post resolution. A repost of a repost shows its
// direct original, whose own original is left unresolved.
const repostDepth = 1

// RecentDeleteCount is how many posts DELETE /posts/user/last-five removes.
const RecentDeleteCount = 5

// Viewer ids are 0 for anonymous requests.
type PostService interface {
	ComposePost(ctx context.Context, postID, viewerID int) (models.PostWithUser, error)
	ListPosts(ctx context.Context, viewerID int) ([]models.PostWithUser, error)
	ListPostsByUser(ctx context.Context, userID, viewerID int) ([]models.PostWithUser, error)
	SearchPosts(ctx context.Context, query string, viewerID int) ([]models.PostWithUser, error)
	ListPostsByHashtag(ctx context.Context, topic string, viewerID int) ([]models.PostWithUser, error)
	CreatePost(ctx context.Context, userID int, req models.CreatePostRequest) (models.PostWithUser, error)
	UpdatePost(ctx context.Context, postID, userID int, content string) (models.PostWithUser, error)
	DeletePost(ctx context.Context, postID, userID int) error
	DeleteRecent(ctx context.Context, userID, n int) (models.DeleteRecentResult, error)
}

type postService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	trending TrendingService
	notify   NotificationService
	log      *zap.Logger
}

func NewPostService(store *repository.Store, trending TrendingService, notify NotificationService, log *zap.Logger) PostService {
	return &postService{
		posts:    store.Posts,
		users:    store.Users,
		likes:    store.Likes,
		comments: store.Comments,
		trending: trending,
		notify:   notify,
		log:      log,
	}
}

func (s *postService) ComposePost(ctx context.Context, postID, viewerID int) (models.PostWithUser, error) {
	if postID <= 0 {
		return models.PostWithUser{}, apperr.NotFound("post not found")
	}
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.PostWithUser{}, dbErr(err, "post not found")
	}
	return s.composeWithDepth(ctx, p, viewerID, repostDepth)
}

// composeWithDepth assembles p and, while depth > 0, its original post.
// Each level decrements depth so malformed chains cannot recurse further.
func (s *postService) composeWithDepth(ctx context.Context, p models.Post, viewerID, depth int) (models.PostWithUser, error) {
	author, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return models.PostWithUser{}, dbErr(err, "author not found")
	}
	likeCount, err := s.likes.CountByPost(ctx, p.ID)
	if err != nil {
		return models.PostWithUser{}, dbErr(err, "")
	}
	comments, err := s.comments.ListByPost(ctx, p.ID)
	if err != nil {
		return models.PostWithUser{}, dbErr(err, "")
	}

	liked := false
	if viewerID > 0 {
		if liked, err = s.likes.Exists(ctx, p.ID, viewerID); err != nil {
			return models.PostWithUser{}, dbErr(err, "")
		}
	}

	out := models.PostWithUser{
		Post:         p,
		User:         author,
		LikeCount:    likeCount,
		CommentCount: len(comments),
		IsLiked:      liked,
		IsRepost:     p.OriginalPostID != nil,
		Comments:     comments,
	}

	if depth > 0 && p.OriginalPostID != nil && *p.OriginalPostID != p.ID {
		orig, err := s.posts.GetByID(ctx, *p.OriginalPostID)
		switch {
		case err == nil:
			composed, err := s.composeWithDepth(ctx, orig, viewerID, depth-1)
			if err != nil {
				return models.PostWithUser{}, err
			}
			out.OriginalPost = &composed
		case !errors.Is(err, repository.ErrNotFound):
			return models.PostWithUser{}, dbErr(err, "")
		}
	}
	return out, nil
}

func (s *postService) composeAll(ctx context.Context, rows []models.Post, viewerID int) ([]models.PostWithUser, error) {
	out := make([]models.PostWithUser, 0, len(rows))
	for _, p := range rows {
		composed, err := s.composeWithDepth(ctx, p, viewerID, repostDepth)
		if err != nil {
			return nil, err
		}
		out = append(out, composed)
	}
	return out, nil
}

func (s *postService) ListPosts(ctx context.Context, viewerID int) ([]models.PostWithUser, error) {
	rows, err := s.posts.List(ctx)
	if err != nil {
		return nil, dbErr(err, "")
	}
	return s.composeAll(ctx, rows, viewerID)
}

func (s *postService) ListPostsByUser(ctx context.Context, userID, viewerID int) ([]models.PostWithUser, error) {
	rows, err := s.posts.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, dbErr(err, "")
	}
	return s.composeAll(ctx, rows, viewerID)
}

func (s *postService) SearchPosts(ctx context.Context, query string, viewerID int) ([]models.PostWithUser, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.PostWithUser{}, nil
	}
	rows, err := s.posts.Search(ctx, query)
	if err != nil {
		return nil, dbErr(err, "")
	}
	return s.composeAll(ctx, rows, viewerID)
}

// ListPostsByHashtag matches posts containing the tag. The leading '#' is
// optional in topic.
func (s *postService) ListPostsByHashtag(ctx context.Context, topic string, viewerID int) ([]models.PostWithUser, error) {
	topic = strings.TrimSpace(topic)
	if strings.TrimLeft(topic, "#") == "" {
		return nil, apperr.Validation("topic is required")
	}
	if !strings.HasPrefix(topic, "#") {
		topic = "#" + topic
	}
	return s.SearchPosts(ctx, topic, viewerID)
}

func (s *postService) CreatePost(ctx context.Context, userID int, req models.CreatePostRequest) (models.PostWithUser, error) {
	if userID <= 0 {
		return models.PostWithUser{}, apperr.Unauthorized("authentication required")
	}
	content := strings.TrimSpace(req.Content)

	var original *models.Post
	if req.OriginalPostID != nil {
		o, err := s.posts.GetByID(ctx, *req.OriginalPostID)
		if err != nil {
			return models.PostWithUser{}, dbErr(err, "original post not found")
		}
		original = &o
	} else if content == "" {
		return models.PostWithUser{}, apperr.Validation("content is required")
	}

	p, err := s.posts.Create(ctx, userID, content, req.ImageURL, req.OriginalPostID)
	if err != nil {
		return models.PostWithUser{}, dbErr(err, "")
	}
	s.log.Info("post created", zap.Int("post_id", p.ID), zap.Int("user_id", userID), zap.Bool("repost", original != nil))

	s.trending.RecordHashtags(ctx, p.Content)
	if original != nil {
		postID := p.ID
		s.notify.Emit(ctx, models.Notification{
			UserID:       original.UserID,
			SourceUserID: userID,
			Type:         models.NotificationRepost,
			PostID:       &postID,
		})
	}

	return s.composeWithDepth(ctx, p, userID, repostDepth)
}

func (s *postService) ownedPost(ctx context.Context, postID, userID int) (models.Post, error) {
	if postID <= 0 {
		return models.Post{}, apperr.NotFound("post not found")
	}
	if userID <= 0 {
		return models.Post{}, apperr.Unauthorized("authentication required")
	}
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.Post{}, dbErr(err, "post not found")
	}
	if p.UserID != userID {
		return models.Post{}, apperr.Forbidden("you can only modify your own posts")
	}
	return p, nil
}

func (s *postService) UpdatePost(ctx context.Context, postID, userID int, content string) (models.PostWithUser, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.PostWithUser{}, apperr.Validation("content is required")
	}
	if _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return models.PostWithUser{}, err
	}

	p, err := s.posts.UpdateContent(ctx, postID, content)
	if err != nil {
		return models.PostWithUser{}, dbErr(err, "post not found")
	}
	s.trending.RecordHashtags(ctx, p.Content)

	return s.composeWithDepth(ctx, p, userID, repostDepth)
}

func (s *postService) DeletePost(ctx context.Context, postID, userID int) error {
	if _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return dbErr(err, "post not found")
	}
	s.log.Info("post deleted", zap.Int("post_id", postID), zap.Int("user_id", userID))
	return nil
}

func (s *postService) DeleteRecent(ctx context.Context, userID, n int) (models.DeleteRecentResult, error) {
	if userID <= 0 {
		return models.DeleteRecentResult{}, apperr.Unauthorized("authentication required")
	}
	if n <= 0 {
		return models.DeleteRecentResult{}, apperr.Validation("count must be positive")
	}

	rows, err := s.posts.ListByUser(ctx, userID, n)
	if err != nil {
		return models.DeleteRecentResult{}, dbErr(err, "")
	}

	deleted := []int{}
	for _, p := range rows {
		err := s.posts.Delete(ctx, p.ID)
		if errors.Is(err, repository.ErrNotFound) {
			// Already gone, e.g. cascaded as a repost of an earlier row.
			continue
		}
		if err != nil {
			return models.DeleteRecentResult{}, dbErr(err, "")
		}
		deleted = append(deleted, p.ID)
	}

	msg := "no posts to delete"
	if len(deleted) > 0 {
		msg = "posts deleted"
	}
	s.log.Info("recent posts deleted", zap.Int("user_id", userID), zap.Ints("post_ids", deleted))
	return models.DeleteRecentResult{Message: msg, DeletedCount: len(deleted), DeletedPosts: deleted}, nil
}
