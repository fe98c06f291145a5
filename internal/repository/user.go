package repository

import (
	"context"

	"employee-directory/internal/domain"
)

// UserRepository is the credential store. Implementations enforce email uniqueness
// and report a violation as a domain conflict error.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create assigns the user an ID and persists it.
	Create(ctx context.Context, user *domain.User) error
	// GetByEmail fails with a domain not-found error when no user matches.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
