package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestUserContextMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(UserContextMiddleware())

	var got CurrentUser
	app.Get("/", func(c *fiber.Ctx) error {
		got = UserFromCtx(c)
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("identity headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-User-ID", "user-1")
		req.Header.Set("X-User-Name", "Ali")
		req.Header.Set("X-User-Email", "ali@example.com")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if got.ID != "user-1" || got.DisplayName != "Ali" || got.IsAnonymous {
			t.Errorf("user = %+v", got)
		}
	})

	t.Run("anonymous fallback", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if !got.IsAnonymous || got.DisplayName != "Misafir" {
			t.Errorf("anonymous user = %+v", got)
		}
	})
}

func TestUserFromCtxWithoutMiddleware(t *testing.T) {
	app := fiber.New()

	var got CurrentUser
	app.Get("/", func(c *fiber.Ctx) error {
		got = UserFromCtx(c)
		return c.SendStatus(fiber.StatusOK)
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("Test: %v", err)
	}
	if !got.IsAnonymous || got.DisplayName != "Misafir" {
		t.Errorf("fallback user = %+v", got)
	}
}
