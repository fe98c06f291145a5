package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("signup: %w", Conflict("email already registered"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, Conflict("email already registered"))
	assert.NotErrorIs(t, err, Conflict("something else"))
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("find user", cause)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "find user: connection refused", err.Error())
	assert.Equal(t, "internal storage error", err.Public())
}

func TestExtensionsCarryCode(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"code": "AUTH"}, Auth("invalid token").Extensions())
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestUserPublicDropsHash(t *testing.T) {
	u := &User{ID: "1", Username: "alice", Email: "alice@example.com", PasswordHash: "secret"}
	pub := u.Public()

	assert.Empty(t, pub.PasswordHash)
	assert.Equal(t, "alice", pub.Username)
	assert.Nil(t, (*User)(nil).Public())
}

func TestEmployeeFilterAndPatch(t *testing.T) {
	e := &Employee{Designation: "Engineer", Department: "R&D", Salary: 2000}

	assert.True(t, EmployeeFilter{}.Matches(e))
	assert.True(t, EmployeeFilter{Designation: "Engineer"}.Matches(e))
	assert.False(t, EmployeeFilter{Designation: "Engineer", Department: "Sales"}.Matches(e))

	salary := 3000
	dept := "Sales"
	EmployeePatch{Salary: &salary, Department: &dept}.Apply(e)
	assert.Equal(t, 3000, e.Salary)
	assert.Equal(t, "Sales", e.Department)
	assert.Equal(t, "Engineer", e.Designation)
}
