package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]domain.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]domain.Employee)}
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) Init(context.Context) error { return nil }

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	if err := ctx.Err(); err != nil {
		return domain.Store("insert employee", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(employee.Email, "") {
		return domain.Conflict("employee with this email already exists")
	}
	now := time.Now().UTC()
	employee.ID = uuid.NewString()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	r.employees[employee.ID] = *employee
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	if err := ctx.Err(); err != nil {
		return domain.Store("update employee", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[employee.ID]; !ok {
		return domain.NotFound("employee not found")
	}
	if r.emailTaken(employee.Email, employee.ID) {
		return domain.Conflict("employee with this email already exists")
	}
	employee.UpdatedAt = time.Now().UTC()
	r.employees[employee.ID] = *employee
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return domain.Store("delete employee", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[id]; !ok {
		return domain.NotFound("employee not found")
	}
	delete(r.employees, id)
	return nil
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Store("get employee", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, domain.NotFound("employee not found")
	}
	return &e, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Store("get employee", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.employees {
		if e.Email == email {
			e := e
			return &e, nil
		}
	}
	return nil, domain.NotFound("employee not found")
}

func (r *EmployeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Store("list employees", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if filter.Matches(&e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *EmployeeRepository) emailTaken(email, exceptID string) bool {
	for id, e := range r.employees {
		if id != exceptID && e.Email == email {
			return true
		}
	}
	return false
}
