package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkruzel/trainings-api/internal/models"
	appErrors "github.com/jkruzel/trainings-api/pkg/errors"
)

type employeeRepoMock struct {
	employees    map[string]*models.Employee
	coachedCount int
	deleteCalled bool
	createCalled bool
	updateCalled bool
}

func (m *employeeRepoMock) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeSummary, int, error) {
	return nil, 0, nil
}

func (m *employeeRepoMock) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *employeeRepoMock) Create(ctx context.Context, employee *models.Employee) error {
	m.createCalled = true
	employee.ID = "emp-new"
	return nil
}

func (m *employeeRepoMock) Update(ctx context.Context, employee *models.Employee) error {
	m.updateCalled = true
	return nil
}

func (m *employeeRepoMock) Delete(ctx context.Context, id string) error {
	m.deleteCalled = true
	return nil
}

func (m *employeeRepoMock) CountCoachedCourses(ctx context.Context, coachID string) (int, error) {
	return m.coachedCount, nil
}

type coachCourseRepoMock struct {
	courses []models.TrainingCourse
}

func (m *coachCourseRepoMock) ListByCoach(ctx context.Context, coachID string) ([]models.TrainingCourse, error) {
	return m.courses, nil
}

func sampleEmployee(id string) *models.Employee {
	return &models.Employee{
		ID: id,
		Person: models.Person{
			FirstName:   "Anna",
			LastName:    "Nowak",
			Gender:      models.GenderFemale,
			Email:       "anna.nowak@example.com",
			PhoneNumber: "123456789",
		},
		Position: "Senior Trainer",
		Company:  "Acme",
	}
}

func TestEmployeeServiceDeleteBlockedForCoach(t *testing.T) {
	repo := &employeeRepoMock{
		employees:    map[string]*models.Employee{"emp-1": sampleEmployee("emp-1")},
		coachedCount: 2,
	}
	svc := NewEmployeeService(repo, &coachCourseRepoMock{}, nil, nil)

	err := svc.Delete(context.Background(), "emp-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCoachReferenced.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Anna Nowak")
	assert.False(t, repo.deleteCalled)
}

func TestEmployeeServiceDeleteAllowed(t *testing.T) {
	repo := &employeeRepoMock{
		employees: map[string]*models.Employee{"emp-1": sampleEmployee("emp-1")},
	}
	svc := NewEmployeeService(repo, &coachCourseRepoMock{}, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "emp-1"))
	assert.True(t, repo.deleteCalled)
}

func TestEmployeeServiceDeleteUnknown(t *testing.T) {
	svc := NewEmployeeService(&employeeRepoMock{employees: map[string]*models.Employee{}}, &coachCourseRepoMock{}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceCreateValidation(t *testing.T) {
	repo := &employeeRepoMock{}
	svc := NewEmployeeService(repo, &coachCourseRepoMock{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName:   "Anna",
		LastName:    "Nowak",
		Gender:      "OTHER",
		Email:       "anna@example.com",
		PhoneNumber: "123456789",
		Position:    "Trainer",
		Company:     "Acme",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.createCalled)
}

func TestEmployeeServiceCoursesSumsDuration(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := &employeeRepoMock{
		employees: map[string]*models.Employee{"emp-1": sampleEmployee("emp-1")},
	}
	courses := &coachCourseRepoMock{courses: []models.TrainingCourse{
		{ID: "c1", StartTime: start, EndTime: start.Add(2 * time.Hour)},
		{ID: "c2", StartTime: start.AddDate(0, 0, 1), EndTime: start.AddDate(0, 0, 1).Add(90 * time.Minute)},
	}}
	svc := NewEmployeeService(repo, courses, nil, nil)

	result, err := svc.Courses(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Len(t, result.Courses, 2)
	assert.Equal(t, 3*time.Hour+30*time.Minute, result.TotalDuration)
	assert.Equal(t, int64(12600), result.TotalSeconds)
}

func TestEmployeeServiceUpdateKeepsIdentity(t *testing.T) {
	repo := &employeeRepoMock{
		employees: map[string]*models.Employee{"emp-1": sampleEmployee("emp-1")},
	}
	svc := NewEmployeeService(repo, &coachCourseRepoMock{}, nil, nil)

	employee, err := svc.Update(context.Background(), "emp-1", UpdateEmployeeRequest{
		PhoneNumber: "987654321",
		Position:    "Lead Trainer",
		Company:     "Acme",
		Team:        "L&D",
	})
	require.NoError(t, err)
	assert.True(t, repo.updateCalled)
	assert.Equal(t, "Anna", employee.FirstName)
	assert.Equal(t, "987654321", employee.PhoneNumber)
	assert.Equal(t, "Lead Trainer", employee.Position)
}
