package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/devkit/toolbox-service/internal/config"
	"github.com/devkit/toolbox-service/internal/domain"
	apperrors "github.com/devkit/toolbox-service/pkg/util"
)

const claimKey = "auth_claim"

// RouteGuard gates every non-public route on a resolvable session token.
// It runs per request; nothing is cached beyond the token itself.
type RouteGuard struct {
	issuer     *SessionIssuer
	cookieName string
	signInPath string
	exact      map[string]struct{}
	prefixes   []string
}

// NewRouteGuard constructs the guard. Public paths ending in "/*" match
// by prefix, all others match exactly.
func NewRouteGuard(issuer *SessionIssuer, cfg config.AuthConfig, publicPaths ...string) *RouteGuard {
	g := &RouteGuard{
		issuer:     issuer,
		cookieName: cfg.CookieName,
		signInPath: cfg.SignInPath,
		exact:      make(map[string]struct{}, len(publicPaths)),
	}
	for _, path := range publicPaths {
		if prefix, ok := strings.CutSuffix(path, "/*"); ok {
			g.prefixes = append(g.prefixes, prefix+"/")
			continue
		}
		g.exact[path] = struct{}{}
	}
	return g
}

// Handle resolves the session and either admits the request, storing the
// identity claim in locals, or turns the bearer away. Guarded handlers
// never run for unauthenticated requests.
func (g *RouteGuard) Handle(c *fiber.Ctx) error {
	if g.isPublic(c.Path()) {
		return c.Next()
	}

	token := g.extractToken(c)
	if token == "" {
		return g.reject(c)
	}

	claim, err := g.issuer.Resolve(token)
	if err != nil {
		return g.reject(c)
	}

	c.Locals(claimKey, claim)
	return c.Next()
}

func (g *RouteGuard) isPublic(path string) bool {
	if _, ok := g.exact[path]; ok {
		return true
	}
	for _, prefix := range g.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// extractToken prefers the session cookie, falling back to a bearer
// header for non-browser clients.
func (g *RouteGuard) extractToken(c *fiber.Ctx) string {
	if token := c.Cookies(g.cookieName); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// reject redirects browser navigations to the sign-in page and answers
// API clients with 401.
func (g *RouteGuard) reject(c *fiber.Ctx) error {
	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		return c.Redirect(g.signInPath, fiber.StatusFound)
	}
	return apperrors.NewUnauthorized("authentication required")
}

// ClaimFromContext retrieves the authenticated identity claim.
func ClaimFromContext(c *fiber.Ctx) (*domain.IdentityClaim, bool) {
	val := c.Locals(claimKey)
	if val == nil {
		return nil, false
	}
	claim, ok := val.(*domain.IdentityClaim)
	return claim, ok
}
