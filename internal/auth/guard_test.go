package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/devkit/toolbox-service/internal/api/http"
	"github.com/devkit/toolbox-service/internal/auth"
	"github.com/devkit/toolbox-service/internal/config"
	"github.com/devkit/toolbox-service/internal/domain"
)

const testCookieName = "session_token"

func newGuardApp(t *testing.T, issuer *auth.SessionIssuer) *fiber.App {
	t.Helper()

	cfg := config.AuthConfig{CookieName: testCookieName, SignInPath: "/signin"}
	guard := auth.NewRouteGuard(issuer, cfg, "/", "/health/*", "/signin")

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Use(guard.Handle)

	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/", ok)
	app.Get("/health/live", ok)
	app.Get("/signin", ok)
	app.Get("/api/me", func(c *fiber.Ctx) error {
		claim, found := auth.ClaimFromContext(c)
		require.True(t, found, "guarded handler ran without a claim")
		return c.JSON(claim)
	})
	return app
}

func TestRouteGuard_PublicPathsAlwaysRender(t *testing.T) {
	t.Parallel()

	app := newGuardApp(t, auth.NewSessionIssuer("secret", time.Hour))

	for _, path := range []string{"/", "/health/live", "/signin"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "path %s", path)
	}
}

func TestRouteGuard_NoSessionRejectsAPIClients(t *testing.T) {
	t.Parallel()

	app := newGuardApp(t, auth.NewSessionIssuer("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouteGuard_NoSessionRedirectsBrowsers(t *testing.T) {
	t.Parallel()

	app := newGuardApp(t, auth.NewSessionIssuer("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(fiber.HeaderAccept, "text/html,application/xhtml+xml")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signin", resp.Header.Get(fiber.HeaderLocation))
}

func TestRouteGuard_ValidCookieAdmits(t *testing.T) {
	t.Parallel()

	issuer := auth.NewSessionIssuer("secret", time.Hour)
	app := newGuardApp(t, issuer)

	token, _, err := issuer.Issue(domain.IdentityClaim{ID: "u1", Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouteGuard_BearerFallback(t *testing.T) {
	t.Parallel()

	issuer := auth.NewSessionIssuer("secret", time.Hour)
	app := newGuardApp(t, issuer)

	token, _, err := issuer.Issue(domain.IdentityClaim{ID: "u1", Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouteGuard_TamperedTokenRejected(t *testing.T) {
	t.Parallel()

	issuer := auth.NewSessionIssuer("secret", time.Hour)
	app := newGuardApp(t, issuer)

	token, _, err := issuer.Issue(domain.IdentityClaim{ID: "u1", Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token + "x"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
