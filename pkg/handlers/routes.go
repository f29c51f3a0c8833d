package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"connected/pkg/middleware"
)

type Handlers struct {
	Users        *UsersHandler
	Posts        *PostsHandler
	Interactions *InteractionsHandler
	Messages     *MessagesHandler
}

func perIP(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	})
}

// Register mounts the /api routes. Static paths are declared before their
// parameterised siblings so /posts/search never matches /posts/:id.
func Register(app *fiber.App, h Handlers, jwtSecret string) {
	auth := middleware.RequireAuth(jwtSecret)
	viewer := middleware.OptionalAuth(jwtSecret)

	api := app.Group("/api")

	api.Post("/auth/register", perIP(5), h.Users.Register)
	api.Post("/auth/login", perIP(10), h.Users.Login)

	api.Get("/users", h.Users.List)
	api.Get("/users/username/:username", h.Users.GetByUsername)
	api.Get("/users/:id", h.Users.Get)
	api.Get("/users/:id/follow-stats", h.Users.FollowStats)
	api.Post("/users/:id/profile-image", auth, h.Users.UploadProfileImage)

	api.Post("/follows", auth, h.Users.Follow)
	api.Delete("/follows/:id", auth, h.Users.Unfollow)

	api.Get("/posts", viewer, h.Posts.List)
	api.Post("/posts", auth, h.Posts.Create)
	api.Get("/posts/search", viewer, h.Posts.Search)
	api.Get("/posts/hashtag/:topic", viewer, h.Posts.ByHashtag)
	api.Get("/posts/user/:userId", viewer, h.Posts.ByUser)
	api.Delete("/posts/user/last-five", auth, h.Posts.DeleteLastFive)
	api.Get("/posts/:id", viewer, h.Posts.Get)
	api.Patch("/posts/:id", auth, h.Posts.Update)
	api.Delete("/posts/:id", auth, h.Posts.Delete)

	api.Post("/comments", auth, h.Interactions.CreateComment)
	api.Get("/comments/post/:postId", h.Interactions.ListComments)

	api.Post("/likes", auth, h.Interactions.Like)
	api.Delete("/likes/:postId", auth, h.Interactions.Unlike)

	api.Get("/notifications", auth, h.Interactions.Notifications)
	api.Patch("/notifications/:id/read", auth, h.Interactions.MarkRead)

	api.Get("/trending", h.Interactions.Trending)

	api.Post("/messages", auth, h.Messages.Send)
	api.Get("/messages/conversations", auth, h.Messages.Conversations)
	api.Get("/messages/conversation/:userId", auth, h.Messages.Conversation)

	api.Post("/bot/posts", perIP(10), h.Posts.BotPost)
}
