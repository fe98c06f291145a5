package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"employee-directory/internal/auth"
	"employee-directory/internal/domain"
	"employee-directory/internal/repository/memory"
)

func newTestUserService(t *testing.T) (UserService, *memory.UserRepository, *auth.TokenIssuer) {
	t.Helper()
	repo := memory.NewUserRepository()
	issuer, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)
	return NewUserService(repo, auth.NewBcryptHasher(bcrypt.MinCost), issuer), repo, issuer
}

func TestSignup_Succeeds(t *testing.T) {
	svc, repo, _ := newTestUserService(t)

	user, err := svc.Signup(context.Background(), "alice", "alice@example.com", "longenough1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestSignup_LongPassword(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()
	password := strings.Repeat("a", 73)

	user, err := svc.Signup(ctx, "carol", "carol@example.com", password)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)

	session, err := svc.Login(ctx, "carol@example.com", password)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "longenough1")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "alice again", "alice@example.com", "otherpassword")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, repo.Len())
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "invalid email", email: "not-an-email", password: "longenough1", want: ErrInvalidEmail},
		{name: "empty email", email: "", password: "longenough1", want: ErrInvalidEmail},
		{name: "short password", email: "bob@example.com", password: "short", want: ErrPasswordTooShort},
		{name: "seven runes", email: "bob@example.com", password: "ééééééé", want: ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestUserService(t)

			_, err := svc.Signup(context.Background(), "bob", tt.email, tt.password)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, repo.Len())
		})
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _, issuer := newTestUserService(t)
	ctx := context.Background()

	alice, err := svc.Signup(ctx, "alice", "alice@example.com", "longenough1")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "alice@example.com", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, session.User.ID)
	assert.Empty(t, session.User.PasswordHash)

	claims, err := issuer.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.Subject)
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "longenough1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrongpass")
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "longenough1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_MissingSecret(t *testing.T) {
	repo := memory.NewUserRepository()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	svc := NewUserService(repo, hasher, nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "longenough1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "longenough1")
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.ErrorIs(t, err, auth.ErrSecretMissing)

	// credentials are checked before the secret
	_, err = svc.Login(ctx, "alice@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	svc, _, issuer := newTestUserService(t)
	ctx := context.Background()

	tok, err := issuer.Issue("user-1")
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, auth.ErrNoToken)

	_, err = svc.Authenticate(ctx, "Bearer garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	other, err := auth.NewTokenIssuer("other-secret")
	require.NoError(t, err)
	forged, err := other.Issue("user-1")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "Bearer "+forged)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

type failingUsers struct {
	memory.UserRepository
}

func (*failingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.Store("find user", errors.New("connection reset"))
}

func TestSignup_StoreErrorPropagates(t *testing.T) {
	svc := NewUserService(&failingUsers{}, auth.NewBcryptHasher(bcrypt.MinCost), nil)

	_, err := svc.Signup(context.Background(), "alice", "alice@example.com", "longenough1")
	assert.ErrorIs(t, err, domain.ErrStore)

	_, err = svc.Login(context.Background(), "alice@example.com", "longenough1")
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	alice, err := svc.Signup(ctx, "alice", "alice@example.com", "longenough1")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Empty(t, got.PasswordHash)
}
