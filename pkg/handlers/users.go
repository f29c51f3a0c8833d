package handlers

import (
	"github.com/gofiber/fiber/v2"

	"connected/pkg/apperr"
	"connected/pkg/middleware"
	"connected/pkg/models"
	"connected/pkg/services"
)

type UsersHandler struct {
	users   services.UserService
	follows services.FollowService
}

func NewUsers(users services.UserService, follows services.FollowService) *UsersHandler {
	return &UsersHandler{users: users, follows: follows}
}

// POST /api/auth/register
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.users.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// POST /api/auth/login
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.users.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// GET /api/users
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GET /api/users/:id
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

// GET /api/users/username/:username
func (h *UsersHandler) GetByUsername(c *fiber.Ctx) error {
	u, err := h.users.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

// POST /api/users/:id/profile-image (auth required, multipart field "image")
func (h *UsersHandler) UploadProfileImage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	file, err := c.FormFile("image")
	if err != nil {
		return apperr.Validation("no file uploaded")
	}
	src, err := file.Open()
	if err != nil {
		return apperr.Validation("unreadable upload")
	}
	defer src.Close()

	u, err := h.users.SetProfileImage(c.UserContext(), middleware.UserID(c), id, services.AvatarUpload{
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		return err
	}
	return c.JSON(u)
}

// GET /api/users/:id/follow-stats
func (h *UsersHandler) FollowStats(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.follows.Stats(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// POST /api/follows (auth required)
func (h *UsersHandler) Follow(c *fiber.Ctx) error {
	var req models.FollowRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.follows.Follow(c.UserContext(), middleware.UserID(c), req.FollowingID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// DELETE /api/follows/:id (auth required)
func (h *UsersHandler) Unfollow(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(c.UserContext(), middleware.UserID(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
