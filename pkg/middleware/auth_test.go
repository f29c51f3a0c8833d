package middleware

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connected/pkg/apperr"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if apperr.KindOf(err) == apperr.KindUnauthorized {
				return c.Status(fiber.StatusUnauthorized).SendString(apperr.MessageOf(err))
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	echo := func(c *fiber.Ctx) error { return c.SendString(strconv.Itoa(UserID(c))) }
	app.Get("/required", RequireAuth(secret), echo)
	app.Get("/optional", OptionalAuth(secret), echo)
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newApp()
	valid := sign(t, secret, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(time.Hour).Unix()})
	expired := sign(t, secret, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	forged := sign(t, "other-secret", jwt.MapClaims{"user_id": 7})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, 200},
		{"missing", "", 401},
		{"not bearer", "Basic abc", 401},
		{"expired", "Bearer " + expired, 401},
		{"wrong key", "Bearer " + forged, 401},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/required", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := newApp()
	valid := sign(t, secret, jwt.MapClaims{"user_id": 9})

	body := func(header string) string {
		req := httptest.NewRequest("GET", "/optional", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		buf := make([]byte, 16)
		n, _ := resp.Body.Read(buf)
		return string(buf[:n])
	}

	assert.Equal(t, "9", body("Bearer "+valid))
	assert.Equal(t, "0", body(""))
	assert.Equal(t, "0", body("Bearer garbage"))
}
