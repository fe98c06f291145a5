package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
	"employee-directory/internal/storage"
)

var (
	// ErrEmployeeNotFound is returned for unknown employee ids.
	ErrEmployeeNotFound = domain.NotFound("employee not found")
	// ErrEmployeeEmailTaken is returned when an employee email is already in use.
	ErrEmployeeEmailTaken = domain.Conflict("employee with this email already exists")
	// ErrStorageDisabled is returned by photo operations when no bucket is configured.
	ErrStorageDisabled = domain.Config("photo storage is not configured")
)

// EmployeeInput carries the fields of a new employee.
type EmployeeInput struct {
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Gender        string `json:"gender" validate:"oneof=Male Female Other"`
	Designation   string `json:"designation" validate:"required"`
	Salary        int    `json:"salary" validate:"min=1000"`
	DateOfJoining string `json:"date_of_joining" validate:"required"`
	Department    string `json:"department" validate:"required"`
	EmployeePhoto string `json:"employee_photo"`
}

// EmployeeUpdate carries a partial update; nil fields are left untouched.
type EmployeeUpdate struct {
	FirstName     *string `json:"first_name" validate:"omitnil,min=1"`
	LastName      *string `json:"last_name" validate:"omitnil,min=1"`
	Email         *string `json:"email" validate:"omitnil,email"`
	Gender        *string `json:"gender" validate:"omitnil,oneof=Male Female Other"`
	Designation   *string `json:"designation" validate:"omitnil,min=1"`
	Salary        *int    `json:"salary" validate:"omitnil,min=1000"`
	DateOfJoining *string `json:"date_of_joining"`
	Department    *string `json:"department" validate:"omitnil,min=1"`
	EmployeePhoto *string `json:"employee_photo"`
}

func (in *EmployeeInput) trim() {
	for _, f := range []*string{&in.FirstName, &in.LastName, &in.Email, &in.Gender,
		&in.Designation, &in.DateOfJoining, &in.Department, &in.EmployeePhoto} {
		*f = strings.TrimSpace(*f)
	}
}

func (u *EmployeeUpdate) trim() {
	for _, f := range []**string{&u.FirstName, &u.LastName, &u.Email, &u.Gender,
		&u.Designation, &u.DateOfJoining, &u.Department, &u.EmployeePhoto} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
}

// Photo is an uploaded employee picture.
type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// StorageOptions locates employee photos in object storage.
type StorageOptions struct {
	Bucket     string
	KeyPrefix  string
	PresignTTL time.Duration
}

// EmployeeService manages the employee directory.
type EmployeeService interface {
	List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, input EmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, id string, update EmployeeUpdate) (*domain.Employee, error)
	Delete(ctx context.Context, id string) (*domain.Employee, error)
	SetPhoto(ctx context.Context, id string, photo Photo) (*domain.Employee, error)
	// PhotoURL resolves the employee photo to a fetchable URL, presigning s3 locations.
	PhotoURL(ctx context.Context, employee *domain.Employee) (string, error)
}

type employeeService struct {
	employees repository.EmployeeRepository
	storage   storage.Service
	opts      StorageOptions
	logger    *logrus.Logger
}

// NewEmployeeService builds the directory service. store may be nil, which
// disables photo uploads.
func NewEmployeeService(employees repository.EmployeeRepository, store storage.Service, opts StorageOptions, logger *logrus.Logger) EmployeeService {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "employees"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &employeeService{
		employees: employees,
		storage:   store,
		opts:      opts,
		logger:    logger,
	}
}

func (s *employeeService) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	return s.employees.List(ctx, filter)
}

func (s *employeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.employees.Get(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrEmployeeNotFound)
	}
	return e, nil
}

func (s *employeeService) Create(ctx context.Context, input EmployeeInput) (*domain.Employee, error) {
	input.trim()
	if err := validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	joined, err := parseDate(input.DateOfJoining)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, input.Email, ""); err != nil {
		return nil, err
	}

	e := &domain.Employee{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Gender:        input.Gender,
		Designation:   input.Designation,
		Salary:        input.Salary,
		DateOfJoining: joined,
		Department:    input.Department,
		EmployeePhoto: input.EmployeePhoto,
	}
	if err := s.employees.Create(ctx, e); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrEmployeeEmailTaken
		}
		return nil, err
	}
	return e, nil
}

func (s *employeeService) Update(ctx context.Context, id string, update EmployeeUpdate) (*domain.Employee, error) {
	update.trim()
	if err := validate.Struct(update); err != nil {
		return nil, validationError(err)
	}

	patch := domain.EmployeePatch{
		FirstName:     update.FirstName,
		LastName:      update.LastName,
		Email:         update.Email,
		Gender:        update.Gender,
		Designation:   update.Designation,
		Salary:        update.Salary,
		Department:    update.Department,
		EmployeePhoto: update.EmployeePhoto,
	}
	if update.DateOfJoining != nil {
		joined, err := parseDate(*update.DateOfJoining)
		if err != nil {
			return nil, err
		}
		patch.DateOfJoining = &joined
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Email != nil && *update.Email != e.Email {
		if err := s.ensureEmailFree(ctx, *update.Email, e.ID); err != nil {
			return nil, err
		}
	}

	patch.Apply(e)
	if err := s.employees.Update(ctx, e); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrEmployeeEmailTaken
		}
		return nil, notFoundAs(err, ErrEmployeeNotFound)
	}
	return e, nil
}

func (s *employeeService) Delete(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return nil, notFoundAs(err, ErrEmployeeNotFound)
	}

	if s.storage != nil && s.opts.Bucket != "" && storage.IsLocation(e.EmployeePhoto) {
		if err := s.storage.DeletePrefix(ctx, s.opts.Bucket, s.photoPrefix(e.ID)); err != nil {
			s.logger.WithError(err).WithField("employee_id", e.ID).Warn("delete employee photos")
		}
	}
	return e, nil
}

func (s *employeeService) SetPhoto(ctx context.Context, id string, photo Photo) (*domain.Employee, error) {
	if s.storage == nil || s.opts.Bucket == "" {
		return nil, ErrStorageDisabled
	}
	if photo.Body == nil {
		return nil, domain.Validation("photo is required")
	}
	if photo.ContentType != "" && !strings.HasPrefix(photo.ContentType, "image/") {
		return nil, domain.Validation("photo must be an image")
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.JoinKey(s.photoPrefix(e.ID), uuid.NewString()+strings.ToLower(path.Ext(photo.Filename)))
	location, err := s.storage.Upload(ctx, s.opts.Bucket, key, photo.Body, photo.ContentType)
	if err != nil {
		return nil, domain.Store("upload photo", err)
	}

	e.EmployeePhoto = location
	if err := s.employees.Update(ctx, e); err != nil {
		return nil, notFoundAs(err, ErrEmployeeNotFound)
	}
	return e, nil
}

func (s *employeeService) PhotoURL(ctx context.Context, e *domain.Employee) (string, error) {
	if e == nil || e.EmployeePhoto == "" {
		return "", nil
	}
	if !storage.IsLocation(e.EmployeePhoto) || s.storage == nil {
		return e.EmployeePhoto, nil
	}
	bucket, key, err := storage.ParseLocation(e.EmployeePhoto, "")
	if err != nil {
		return "", domain.Validation(err.Error())
	}
	url, err := s.storage.GetObjectURL(ctx, bucket, key, s.opts.PresignTTL)
	if err != nil {
		return "", domain.Store("presign photo", err)
	}
	return url, nil
}

func (s *employeeService) photoPrefix(id string) string {
	return storage.JoinKey(s.opts.KeyPrefix, id) + "/"
}

func (s *employeeService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.employees.GetByEmail(ctx, email)
	if err == nil {
		if existing.ID != exceptID {
			return ErrEmployeeEmailTaken
		}
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func notFoundAs(err, replacement error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return replacement
	}
	return err
}
