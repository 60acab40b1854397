package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser is what the external identity provider tells us about the
// caller. The planner's data carries no owner fields, so this is only
// used to label views and log activity; anonymous callers are welcome.
type CurrentUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// UserContextMiddleware extracts the identity headers set by the auth
// proxy. Missing headers yield an anonymous user rather than a 401.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser{
			ID:          c.Get("X-User-ID"),
			DisplayName: c.Get("X-User-Name"),
			Email:       c.Get("X-User-Email"),
		}
		user.IsAnonymous = user.ID == ""
		if user.IsAnonymous {
			user.DisplayName = "Misafir"
		}

		c.Locals("current_user", user)

		log.Printf("[USER_CTX] user=%q anonymous=%t | %s %s",
			user.DisplayName, user.IsAnonymous, c.Method(), c.Path())

		return c.Next()
	}
}

// UserFromCtx returns the identity attached by UserContextMiddleware.
func UserFromCtx(c *fiber.Ctx) CurrentUser {
	if user, ok := c.Locals("current_user").(CurrentUser); ok {
		return user
	}
	return CurrentUser{DisplayName: "Misafir", IsAnonymous: true}
}
