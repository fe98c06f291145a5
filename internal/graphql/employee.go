package graphql

import (
	"context"

	"employee-directory/internal/domain"
	"employee-directory/internal/service"
)

type employeeResolver struct {
	root *Resolver
	e    *domain.Employee
}

func (r *Resolver) wrap(e *domain.Employee) *employeeResolver {
	return &employeeResolver{root: r, e: e}
}

func (r *Resolver) wrapAll(list []domain.Employee) []*employeeResolver {
	out := make([]*employeeResolver, len(list))
	for i := range list {
		out[i] = r.wrap(&list[i])
	}
	return out
}

func (r *Resolver) list(ctx context.Context, op string, filter domain.EmployeeFilter) ([]*employeeResolver, error) {
	if err := r.guard(ctx); err != nil {
		return nil, r.fail(ctx, op, err)
	}
	list, err := r.employees.List(ctx, filter)
	if err != nil {
		return nil, r.fail(ctx, op, err)
	}
	return r.wrapAll(list), nil
}

func (r *Resolver) Employees(ctx context.Context) ([]*employeeResolver, error) {
	return r.list(ctx, "employees", domain.EmployeeFilter{})
}

func (r *Resolver) EmployeesByDesignation(ctx context.Context, args struct{ Designation string }) ([]*employeeResolver, error) {
	return r.list(ctx, "employeesByDesignation", domain.EmployeeFilter{Designation: args.Designation})
}

func (r *Resolver) EmployeesByDepartment(ctx context.Context, args struct{ Department string }) ([]*employeeResolver, error) {
	return r.list(ctx, "employeesByDepartment", domain.EmployeeFilter{Department: args.Department})
}

func (r *Resolver) EmployeeByID(ctx context.Context, args struct{ ID string }) (*employeeResolver, error) {
	if err := r.guard(ctx); err != nil {
		return nil, r.fail(ctx, "employeeById", err)
	}
	e, err := r.employees.Get(ctx, args.ID)
	if err != nil {
		return nil, r.fail(ctx, "employeeById", err)
	}
	return r.wrap(e), nil
}

type addEmployeeArgs struct {
	FirstName     string
	LastName      string
	Email         string
	Gender        string
	Designation   string
	Salary        int32
	DateOfJoining string
	Department    string
	EmployeePhoto *string
}

func (r *Resolver) AddEmployee(ctx context.Context, args addEmployeeArgs) (*employeeResolver, error) {
	if err := r.guard(ctx); err != nil {
		return nil, r.fail(ctx, "addEmployee", err)
	}
	input := service.EmployeeInput{
		FirstName:     args.FirstName,
		LastName:      args.LastName,
		Email:         args.Email,
		Gender:        args.Gender,
		Designation:   args.Designation,
		Salary:        int(args.Salary),
		DateOfJoining: args.DateOfJoining,
		Department:    args.Department,
	}
	if args.EmployeePhoto != nil {
		input.EmployeePhoto = *args.EmployeePhoto
	}
	e, err := r.employees.Create(ctx, input)
	if err != nil {
		return nil, r.fail(ctx, "addEmployee", err)
	}
	return r.wrap(e), nil
}

type updateEmployeeArgs struct {
	ID            string
	FirstName     *string
	LastName      *string
	Email         *string
	Gender        *string
	Designation   *string
	Salary        *int32
	DateOfJoining *string
	Department    *string
	EmployeePhoto *string
}

func (r *Resolver) UpdateEmployee(ctx context.Context, args updateEmployeeArgs) (*employeeResolver, error) {
	if err := r.guard(ctx); err != nil {
		return nil, r.fail(ctx, "updateEmployee", err)
	}
	update := service.EmployeeUpdate{
		FirstName:     args.FirstName,
		LastName:      args.LastName,
		Email:         args.Email,
		Gender:        args.Gender,
		Designation:   args.Designation,
		DateOfJoining: args.DateOfJoining,
		Department:    args.Department,
		EmployeePhoto: args.EmployeePhoto,
	}
	if args.Salary != nil {
		salary := int(*args.Salary)
		update.Salary = &salary
	}
	e, err := r.employees.Update(ctx, args.ID, update)
	if err != nil {
		return nil, r.fail(ctx, "updateEmployee", err)
	}
	return r.wrap(e), nil
}

func (r *Resolver) DeleteEmployee(ctx context.Context, args struct{ ID string }) (*employeeResolver, error) {
	if err := r.guard(ctx); err != nil {
		return nil, r.fail(ctx, "deleteEmployee", err)
	}
	e, err := r.employees.Delete(ctx, args.ID)
	if err != nil {
		return nil, r.fail(ctx, "deleteEmployee", err)
	}
	return r.wrap(e), nil
}

func (e *employeeResolver) ID() string          { return e.e.ID }
func (e *employeeResolver) FirstName() string   { return e.e.FirstName }
func (e *employeeResolver) LastName() string    { return e.e.LastName }
func (e *employeeResolver) Email() string       { return e.e.Email }
func (e *employeeResolver) Gender() string      { return e.e.Gender }
func (e *employeeResolver) Designation() string { return e.e.Designation }
func (e *employeeResolver) Salary() int32       { return int32(e.e.Salary) }
func (e *employeeResolver) Department() string  { return e.e.Department }

func (e *employeeResolver) DateOfJoining() string {
	return e.e.DateOfJoining.Format(domain.DateLayout)
}

func (e *employeeResolver) EmployeePhoto() *string {
	if e.e.EmployeePhoto == "" {
		return nil
	}
	v := e.e.EmployeePhoto
	return &v
}

func (e *employeeResolver) EmployeePhotoURL(ctx context.Context) (*string, error) {
	url, err := e.root.employees.PhotoURL(ctx, e.e)
	if err != nil {
		return nil, e.root.fail(ctx, "employee_photo_url", err)
	}
	if url == "" {
		return nil, nil
	}
	return &url, nil
}
