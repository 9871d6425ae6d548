package handlers

import (
	"time"

	"recipe-finder/internal/middleware"
	"recipe-finder/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// setSessionCookie mirrors the issued token into an HttpOnly cookie that
// expires with it.
func setSessionCookie(c *fiber.Ctx, jwtService jwt.JWTService, token string) {
	expires, err := jwtService.GetExpiry(token)
	if err != nil {
		expires = time.Now().Add(time.Hour)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
