package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devkit/toolbox-service/internal/auth"
	"github.com/devkit/toolbox-service/internal/config"
	"github.com/devkit/toolbox-service/internal/domain"
	"github.com/devkit/toolbox-service/internal/events"
	"github.com/devkit/toolbox-service/internal/repository"
	apperrors "github.com/devkit/toolbox-service/pkg/util"
)

const (
	minNameLen     = 2
	maxNameLen     = 100
	minPasswordLen = 8
)

// AuthService coordinates signup, credential verification and session
// issuance.
type AuthService struct {
	users      repository.UserRepository
	issuer     *auth.SessionIssuer
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		issuer:     auth.NewSessionIssuer(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup registers a new account. The returned user is a projection the
// caller may expose; the password hash stays behind the store boundary.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateSignup(name, email, password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByNameOrEmail(ctx, name, email)
	if err == nil {
		if existing.Name == name {
			return nil, apperrors.NewDuplicateIdentity("Username already exists")
		}
		return nil, apperrors.NewDuplicateIdentity("Email already exists")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraints catch concurrent signups that both
		// passed the pre-insert check; at most one insert wins.
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			return nil, apperrors.NewDuplicateIdentity("Username already exists")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewDuplicateIdentity("Email already exists")
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Name:  user.Name,
		Email: user.Email,
	})
	return user, nil
}

// Authenticate verifies credentials and returns the identity claim. The
// failure is identical whether the email is unknown or the password is
// wrong, so callers cannot probe for registered addresses. The only side
// effect is the store read (plus the published event on success).
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.IdentityClaim, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewInvalidCredentials()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	claim := user.Claim()
	s.publish(ctx, events.EventUserSignedIn, user.ID, events.UserSignedInPayload{Email: user.Email})
	return &claim, nil
}

// SignIn authenticates and, on success, mints a session token for the
// verified identity.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.IdentityClaim, string, time.Time, error) {
	claim, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.issuer.Issue(*claim)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return claim, token, expiresAt, nil
}

// Issuer exposes the underlying session issuer for guard construction.
func (s *AuthService) Issuer() *auth.SessionIssuer {
	return s.issuer
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func validateSignup(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return apperrors.NewMissingField("Missing required fields", nil)
	}
	if len(name) < minNameLen || len(name) > maxNameLen {
		return apperrors.NewMissingField("Name must be between 2 and 100 characters", map[string]any{"field": "name"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.NewMissingField("Invalid email address", map[string]any{"field": "email"})
	}
	if len(password) < minPasswordLen {
		return apperrors.NewMissingField("Password must be at least 8 characters", map[string]any{"field": "password"})
	}
	return nil
}
