package domain

import "time"

// DateLayout is the canonical representation of an employee's date of joining.
const DateLayout = "2006-01-02"

// Employee is a record of the employee directory.
type Employee struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Gender        string
	Designation   string
	Salary        int
	DateOfJoining time.Time
	Department    string
	EmployeePhoto string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmployeeFilter narrows employee listings. Empty fields match everything.
type EmployeeFilter struct {
	Designation string
	Department  string
}

// Matches reports whether the employee satisfies the filter.
func (f EmployeeFilter) Matches(e *Employee) bool {
	if f.Designation != "" && e.Designation != f.Designation {
		return false
	}
	if f.Department != "" && e.Department != f.Department {
		return false
	}
	return true
}

// EmployeePatch holds the fields of a partial employee update; nil means unchanged.
type EmployeePatch struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Gender        *string
	Designation   *string
	Salary        *int
	DateOfJoining *time.Time
	Department    *string
	EmployeePhoto *string
}

// Apply copies every non-nil field of the patch onto e.
func (p EmployeePatch) Apply(e *Employee) {
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Gender != nil {
		e.Gender = *p.Gender
	}
	if p.Designation != nil {
		e.Designation = *p.Designation
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	if p.DateOfJoining != nil {
		e.DateOfJoining = *p.DateOfJoining
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.EmployeePhoto != nil {
		e.EmployeePhoto = *p.EmployeePhoto
	}
}
