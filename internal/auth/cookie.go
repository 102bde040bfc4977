package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/devkit/toolbox-service/internal/config"
)

// SetSessionCookie attaches the session token to the response as an
// HTTP-only cookie whose expiry matches the token's.
func SetSessionCookie(c *fiber.Ctx, cfg config.AuthConfig, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie discards the client-held token. The token itself
// stays valid until its natural expiry; this only removes the credential
// from the browser.
func ClearSessionCookie(c *fiber.Ctx, cfg config.AuthConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
