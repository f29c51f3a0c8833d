package handlers

import (
	"github.com/gofiber/fiber/v2"

	"connected/pkg/middleware"
	"connected/pkg/models"
	"connected/pkg/services"
)

type PostsHandler struct {
	posts services.PostService
	bot   services.BotService
}

func NewPosts(posts services.PostService, bot services.BotService) *PostsHandler {
	return &PostsHandler{posts: posts, bot: bot}
}

// GET /api/posts
func (h *PostsHandler) List(c *fiber.Ctx) error {
	posts, err := h.posts.ListPosts(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// GET /api/posts/:id
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.posts.ComposePost(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// GET /api/posts/search?q=
func (h *PostsHandler) Search(c *fiber.Ctx) error {
	posts, err := h.posts.SearchPosts(c.UserContext(), c.Query("q"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// GET /api/posts/hashtag/:topic
func (h *PostsHandler) ByHashtag(c *fiber.Ctx) error {
	posts, err := h.posts.ListPostsByHashtag(c.UserContext(), c.Params("topic"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// GET /api/posts/user/:userId
func (h *PostsHandler) ByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	posts, err := h.posts.ListPostsByUser(c.UserContext(), userID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// POST /api/posts (auth required)
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	var req models.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.posts.CreatePost(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PATCH /api/posts/:id (owner only)
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.posts.UpdatePost(c.UserContext(), id, middleware.UserID(c), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// DELETE /api/posts/:id (owner only)
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "post deleted"})
}

// DELETE /api/posts/user/last-five (auth required)
func (h *PostsHandler) DeleteLastFive(c *fiber.Ctx) error {
	res, err := h.posts.DeleteRecent(c.UserContext(), middleware.UserID(c), services.RecentDeleteCount)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// POST /api/bot/posts
func (h *PostsHandler) BotPost(c *fiber.Ctx) error {
	p, err := h.bot.Post(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}
