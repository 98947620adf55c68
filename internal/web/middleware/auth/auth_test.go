package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rbac "github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/token"
	"github.com/benevole/benevole/internal/web/handler"
	"github.com/benevole/benevole/internal/web/middleware/auth"
)

const secret = "0123456789abcdef0123456789abcdef0123456789abcdef"

func TestBearerToken(t *testing.T) {
	raw, err := auth.BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", raw)

	raw, err = auth.BearerToken("  bearer   abc  ")
	require.NoError(t, err)
	assert.Equal(t, "abc", raw)

	_, err = auth.BearerToken("Basic dXNlcjpwdw==")
	require.ErrorIs(t, err, token.ErrMalformedToken)

	_, err = auth.BearerToken("Bearer")
	require.ErrorIs(t, err, token.ErrMalformedToken)

	_, err = auth.BearerToken("Bearer   ")
	require.ErrorIs(t, err, token.ErrInvalidArgument)
}

func TestMiddleware(t *testing.T) {
	tokens, err := token.New(secret, time.Hour)
	require.NoError(t, err)

	svc := rbac.NewService(nil, tokens)

	signed, _, err := tokens.Issue("user-1", "u@example.org", []string{"user"}, []string{"read store"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(auth.Middleware(svc))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(auth.Subject(c))
	})

	testCases := []struct {
		name    string
		header  string
		status  int
		subject string
	}{
		{name: "anonymous", status: fiber.StatusOK},
		{name: "valid", header: "Bearer " + signed, status: fiber.StatusOK, subject: "user-1"},
		{name: "malformed", header: "Bearer abc", status: fiber.StatusUnauthorized},
		{name: "scheme", header: "Token " + signed, status: fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			res, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, res.StatusCode)

			if tc.status == fiber.StatusOK {
				buf := make([]byte, 64)
				n, _ := res.Body.Read(buf)
				assert.Equal(t, tc.subject, string(buf[:n]))
			}
		})
	}
}
