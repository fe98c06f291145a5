package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"employee-directory/internal/auth"
	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
)

const minPasswordLength = 8

var (
	// ErrInvalidEmail rejects syntactically invalid email addresses.
	ErrInvalidEmail = domain.Validation("invalid email")
	// ErrPasswordTooShort rejects passwords under the minimum length.
	ErrPasswordTooShort = domain.Validation("password too short")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = domain.Conflict("email already registered")
	// ErrUserNotFound is returned by Login for unknown emails.
	ErrUserNotFound = domain.NotFound("user not found")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = domain.Auth("invalid credentials")
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and verifies claims tokens.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// Session is the result of a successful login.
type Session struct {
	User  *domain.User
	Token string
}

// UserService describes signup, login and token-gated access.
type UserService interface {
	Signup(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Authenticate verifies the bearer token of an Authorization header value.
	Authenticate(ctx context.Context, authorization string) (*auth.Claims, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewUserService wires the auth flow. A nil tokens issuer makes Login and
// Authenticate fail with a config error.
func NewUserService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *userService) Signup(ctx context.Context, username, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	if !isEmail(email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user.Public(), nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if s.tokens == nil {
		return nil, auth.ErrSecretMissing
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{User: user.Public(), Token: token}, nil
}

func (s *userService) Authenticate(ctx context.Context, authorization string) (*auth.Claims, error) {
	token, err := auth.TokenFromHeader(authorization)
	if err != nil {
		return nil, err
	}
	if s.tokens == nil {
		return nil, auth.ErrSecretMissing
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, domain.ErrConfig) {
			return nil, err
		}
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}
