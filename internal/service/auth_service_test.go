package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/devkit/toolbox-service/internal/config"
	"github.com/devkit/toolbox-service/internal/domain"
	"github.com/devkit/toolbox-service/internal/repository"
	apperrors "github.com/devkit/toolbox-service/pkg/util"
)

// fakeUserRepo is an in-memory store whose Create is atomic with respect
// to the uniqueness constraints, like the real table.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Name == user.Name {
			return repository.ErrDuplicateName
		}
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.seq++
	user.ID = fmt.Sprintf("u%d", f.seq)
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByNameOrEmail(_ context.Context, name, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Name == name || user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newAuthService(repo repository.UserRepository) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			SessionSecret:     "test-secret",
			SessionTTLMinutes: 60,
			BcryptCost:        bcrypt.MinCost,
		},
	}
	return NewAuthService(cfg, AuthDependencies{UserRepo: repo})
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	return domainErr.Code
}

func TestSignup_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Signup(context.Background(), "Ana", "ana@x.com", "longenough1")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@x.com", user.Email)
	assert.NotEqual(t, "longenough1", user.PasswordHash)

	claim := user.Claim()
	assert.Equal(t, domain.IdentityClaim{ID: user.ID, Name: "Ana", Email: "ana@x.com"}, claim)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), "Ana", "ana@x.com", "longenough1")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "Bob", "ana@x.com", "longenough1")
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_IDENTITY", domainCode(t, err))
	assert.Equal(t, "Email already exists", err.Error())

	// rejection is idempotent: the store still holds exactly one record
	assert.Len(t, repo.users, 1)
}

func TestSignup_DuplicateName(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), "Ana", "ana@x.com", "longenough1")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "Ana", "other@x.com", "longenough1")
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_IDENTITY", domainCode(t, err))
	assert.Equal(t, "Username already exists", err.Error())
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing name", "", "ana@x.com", "longenough1"},
		{"missing email", "Ana", "", "longenough1"},
		{"missing password", "Ana", "ana@x.com", ""},
		{"name too short", "A", "ana@x.com", "longenough1"},
		{"invalid email", "Ana", "not-an-email", "longenough1"},
		{"password too short", "Ana", "ana@x.com", "short"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAuthService(newFakeUserRepo())
			_, err := svc.Signup(context.Background(), tc.userName, tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, "MISSING_FIELD", domainCode(t, err))
		})
	}
}

func TestSignup_ConcurrentSameEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("Racer%d", i)
			_, errs[i] = svc.Signup(context.Background(), name, "race@x.com", "longenough1")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.Equal(t, "DUPLICATE_IDENTITY", domainCode(t, err))
	}
	assert.Equal(t, 1, wins, "exactly one concurrent signup must win")
	assert.Len(t, repo.users, 1)
}

func TestAuthenticate_Success(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	user, err := svc.Signup(context.Background(), "Ana", "ana@x.com", "longenough1")
	require.NoError(t, err)

	claim, err := svc.Authenticate(context.Background(), "ana@x.com", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claim.ID)
	assert.Equal(t, "ana@x.com", claim.Email)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	_, err := svc.Signup(context.Background(), "Ana", "ana@x.com", "longenough1")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(context.Background(), "ana@x.com", "wrong-password")
	_, unknownEmail := svc.Authenticate(context.Background(), "nobody@x.com", "longenough1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, wrongPassword))
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, unknownEmail))
}

func TestSignIn_TokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	_, err := svc.Signup(context.Background(), "Ana", "ana@x.com", "longenough1")
	require.NoError(t, err)

	claim, token, expiresAt, err := svc.SignIn(context.Background(), "ana@x.com", "longenough1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	resolved, err := svc.Issuer().Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, *claim, *resolved)
}

func TestSignIn_InvalidCredentialsIssueNoToken(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())

	_, token, _, err := svc.SignIn(context.Background(), "nobody@x.com", "whatever1")
	require.Error(t, err)
	assert.Empty(t, token)
}
