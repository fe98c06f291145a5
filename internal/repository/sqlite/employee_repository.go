package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
)

var createEmployeesStatements = []string{`
CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	gender TEXT NOT NULL,
	designation TEXT NOT NULL,
	salary INTEGER NOT NULL,
	date_of_joining DATETIME NOT NULL,
	department TEXT NOT NULL,
	employee_photo TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_designation ON employees(designation)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department)`,
}

const selectEmployeeColumns = `
SELECT id, first_name, last_name, email, gender, designation, salary, date_of_joining,
	department, employee_photo, created_at, updated_at
FROM employees`

type EmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) repository.EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Init(ctx context.Context) error {
	for _, stmt := range createEmployeesStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return domain.Store("create employees table", err)
		}
	}
	return nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO employees (id, first_name, last_name, email, gender, designation, salary, date_of_joining, department, employee_photo, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Gender,
		e.Designation,
		e.Salary,
		e.DateOfJoining.UTC(),
		e.Department,
		e.EmployeePhoto,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("employee with this email already exists")
		}
		return domain.Store("insert employee", err)
	}

	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE employees
SET first_name = ?, last_name = ?, email = ?, gender = ?, designation = ?, salary = ?,
	date_of_joining = ?, department = ?, employee_photo = ?, updated_at = ?
WHERE id = ?`,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Gender,
		e.Designation,
		e.Salary,
		e.DateOfJoining.UTC(),
		e.Department,
		e.EmployeePhoto,
		now,
		e.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("employee with this email already exists")
		}
		return domain.Store("update employee", err)
	}
	if err := expectAffected(res, "update employee"); err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return domain.Store("delete employee", err)
	}
	return expectAffected(res, "delete employee")
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, selectEmployeeColumns+` WHERE id = ?`, id)
	return scanEmployee(row)
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, selectEmployeeColumns+` WHERE email = ?`, email)
	return scanEmployee(row)
}

func (r *EmployeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	var (
		where []string
		args  []any
	)
	if filter.Designation != "" {
		where = append(where, "designation = ?")
		args = append(args, filter.Designation)
	}
	if filter.Department != "" {
		where = append(where, "department = ?")
		args = append(args, filter.Department)
	}

	query := selectEmployeeColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Store("list employees", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Store("iterate employees", err)
	}
	return employees, nil
}

func scanEmployee(row scanner) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.Email,
		&e.Gender,
		&e.Designation,
		&e.Salary,
		&e.DateOfJoining,
		&e.Department,
		&e.EmployeePhoto,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("employee not found")
		}
		return nil, domain.Store("scan employee", err)
	}
	return &e, nil
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Store(op, err)
	}
	if n == 0 {
		return domain.NotFound("employee not found")
	}
	return nil
}
