package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/devkit/toolbox-service/internal/api/dto"
	"github.com/devkit/toolbox-service/internal/auth"
	"github.com/devkit/toolbox-service/internal/config"
	"github.com/devkit/toolbox-service/internal/service"
	apperrors "github.com/devkit/toolbox-service/pkg/util"
)

// AuthHandler exposes the signup and session endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	authCfg config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, authCfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, authCfg: authCfg}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingField("invalid payload", nil)
	}

	user, err := h.auth.Signup(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user": dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

// SignIn handles POST /auth/signin. On success the session token is set
// as an HTTP-only cookie.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	claim, token, expiresAt, err := h.auth.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, h.authCfg, token, expiresAt)

	return c.JSON(fiber.Map{
		"message": "Signed in",
		"user": dto.UserResponse{
			ID:    claim.ID,
			Name:  claim.Name,
			Email: claim.Email,
		},
	})
}

// SignOut handles POST /auth/signout. It only discards the client-held
// cookie; an already-issued token stays valid until its expiry.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	auth.ClearSessionCookie(c, h.authCfg)
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me handles GET /api/me, returning the resolved identity claim.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claim, ok := auth.ClaimFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"user": dto.UserResponse{
		ID:    claim.ID,
		Name:  claim.Name,
		Email: claim.Email,
	}})
}
