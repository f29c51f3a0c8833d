package handlers

import (
	"github.com/gofiber/fiber/v2"

	"connected/pkg/middleware"
	"connected/pkg/models"
	"connected/pkg/services"
)

// InteractionsHandler serves comments, likes, notifications and trending.
type InteractionsHandler struct {
	comments      services.CommentService
	likes         services.LikeService
	notifications services.NotificationService
	trending      services.TrendingService
}

func NewInteractions(comments services.CommentService, likes services.LikeService, notifications services.NotificationService, trending services.TrendingService) *InteractionsHandler {
	return &InteractionsHandler{comments: comments, likes: likes, notifications: notifications, trending: trending}
}

// POST /api/comments (auth required)
func (h *InteractionsHandler) CreateComment(c *fiber.Ctx) error {
	var req models.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.CreateComment(c.UserContext(), middleware.UserID(c), req.PostID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GET /api/comments/post/:postId
func (h *InteractionsHandler) ListComments(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	list, err := h.comments.ListByPost(c.UserContext(), postID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// POST /api/likes (auth required)
func (h *InteractionsHandler) Like(c *fiber.Ctx) error {
	var req models.LikeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.likes.Like(c.UserContext(), middleware.UserID(c), req.PostID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// DELETE /api/likes/:postId (auth required)
func (h *InteractionsHandler) Unlike(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return err
	}
	p, err := h.likes.Unlike(c.UserContext(), middleware.UserID(c), postID)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// GET /api/notifications (auth required)
func (h *InteractionsHandler) Notifications(c *fiber.Ctx) error {
	list, err := h.notifications.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// PATCH /api/notifications/:id/read (recipient only)
func (h *InteractionsHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.notifications.MarkRead(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(n)
}

// GET /api/trending
func (h *InteractionsHandler) Trending(c *fiber.Ctx) error {
	topics, err := h.trending.GetTrending(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(topics)
}
