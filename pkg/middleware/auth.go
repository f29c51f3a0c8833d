package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"connected/pkg/apperr"
)

const userIDKey = "user_id"

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		userID, username, err := parseBearer(c.Get("Authorization"), key)
		if err != nil {
			return err
		}
		c.Locals(userIDKey, userID)
		c.Locals("username", username)
		return c.Next()
	}
}

// OptionalAuth identifies the viewer when a valid token is present and lets
// anonymous requests through. A malformed or expired token counts as anonymous.
func OptionalAuth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		if userID, username, err := parseBearer(c.Get("Authorization"), key); err == nil {
			c.Locals(userIDKey, userID)
			c.Locals("username", username)
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) int {
	id, _ := c.Locals(userIDKey).(int)
	return id
}

func parseBearer(header string, key []byte) (int, string, error) {
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return 0, "", apperr.Unauthorized("missing bearer token")
	}

	token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, "", apperr.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", apperr.Unauthorized("invalid token")
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, "", apperr.Unauthorized("invalid token")
	}
	username, _ := claims["username"].(string)
	return int(rawID), username, nil
}
