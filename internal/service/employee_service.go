package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jkruzel/trainings-api/internal/models"
	appErrors "github.com/jkruzel/trainings-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeSummary, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
	CountCoachedCourses(ctx context.Context, coachID string) (int, error)
}

type coachCourseRepository interface {
	ListByCoach(ctx context.Context, coachID string) ([]models.TrainingCourse, error)
}

// CreateEmployeeRequest represents payload for creating employees.
type CreateEmployeeRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=64"`
	LastName    string `json:"last_name" validate:"required,max=64"`
	Gender      string `json:"gender" validate:"required,gender"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,len=9,numeric"`
	Position    string `json:"position" validate:"required,max=256"`
	Company     string `json:"company" validate:"required,max=128"`
	Team        string `json:"team" validate:"max=128"`
	TeamLeader  string `json:"team_leader" validate:"max=128"`
	Supervisor  string `json:"supervisor" validate:"max=128"`
}

// UpdateEmployeeRequest represents payload for updating employees. Identity
// attributes (name, gender, email) are fixed after creation; only contact
// and job attributes change.
type UpdateEmployeeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,len=9,numeric"`
	Position    string `json:"position" validate:"required,max=256"`
	Company     string `json:"company" validate:"required,max=128"`
	Team        string `json:"team" validate:"max=128"`
	TeamLeader  string `json:"team_leader" validate:"max=128"`
	Supervisor  string `json:"supervisor" validate:"max=128"`
}

// EmployeeCourses bundles an employee with their coached courses and the
// summed coaching time.
type EmployeeCourses struct {
	Employee      models.Employee         `json:"employee"`
	Courses       []models.TrainingCourse `json:"courses"`
	TotalDuration time.Duration           `json:"-"`
	TotalSeconds  int64                   `json:"total_duration_seconds"`
}

// EmployeeService orchestrates employee operations.
type EmployeeService struct {
	repo      employeeRepository
	courses   coachCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo employeeRepository, courses coachCourseRepository, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns employee summaries plus pagination data.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeSummary, *models.Pagination, error) {
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return employees, pagination, nil
}

// Get returns an employee by id.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create registers a new employee record.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}

	employee := &models.Employee{
		Person: models.Person{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			Gender:      models.Gender(req.Gender),
			Email:       strings.TrimSpace(req.Email),
			PhoneNumber: req.PhoneNumber,
		},
		Position:   strings.TrimSpace(req.Position),
		Company:    strings.TrimSpace(req.Company),
		Team:       strings.TrimSpace(req.Team),
		TeamLeader: strings.TrimSpace(req.TeamLeader),
		Supervisor: strings.TrimSpace(req.Supervisor),
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Update modifies an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	employee.PhoneNumber = req.PhoneNumber
	employee.Position = strings.TrimSpace(req.Position)
	employee.Company = strings.TrimSpace(req.Company)
	employee.Team = strings.TrimSpace(req.Team)
	employee.TeamLeader = strings.TrimSpace(req.TeamLeader)
	employee.Supervisor = strings.TrimSpace(req.Supervisor)

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return employee, nil
}

// Delete removes an employee unless any course references them as coach, in
// which case the record is left untouched.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	coached, err := s.repo.CountCoachedCourses(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check coached courses")
	}
	if coached > 0 {
		return appErrors.Clone(appErrors.ErrCoachReferenced,
			fmt.Sprintf("cannot delete employee %s: coach of %d course(s)", employee.FullName(), coached))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	s.logger.Info("employee deleted", zap.String("employee_id", id))
	return nil
}

// Courses returns the employee's coached courses with the summed duration.
func (s *EmployeeService) Courses(ctx context.Context, id string) (*EmployeeCourses, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.ListByCoach(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coached courses")
	}

	var total time.Duration
	for _, course := range courses {
		total += course.Duration()
	}

	return &EmployeeCourses{
		Employee:      *employee,
		Courses:       courses,
		TotalDuration: total,
		TotalSeconds:  int64(total.Seconds()),
	}, nil
}
