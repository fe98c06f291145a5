package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-directory/internal/domain"
)

func TestUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	err := repo.Create(ctx, &domain.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, repo.Len())

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUserRepository().GetByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	a := &domain.Employee{FirstName: "Ann", Email: "ann@example.com", Designation: "Engineer", Department: "R&D"}
	b := &domain.Employee{FirstName: "Bob", Email: "bob@example.com", Designation: "Manager", Department: "R&D"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.ErrorIs(t, repo.Create(ctx, &domain.Employee{Email: "ann@example.com"}), domain.ErrConflict)

	all, err := repo.List(ctx, domain.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	engineers, err := repo.List(ctx, domain.EmployeeFilter{Designation: "Engineer"})
	require.NoError(t, err)
	require.Len(t, engineers, 1)
	assert.Equal(t, a.ID, engineers[0].ID)

	b.Email = "ann@example.com"
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrConflict)
	b.Email = "robert@example.com"
	require.NoError(t, repo.Update(ctx, b))

	got, err := repo.GetByEmail(ctx, "robert@example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), domain.ErrNotFound)
	_, err = repo.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
