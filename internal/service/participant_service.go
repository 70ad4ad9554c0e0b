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

type participantRepository interface {
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	CreateWithEnrollments(ctx context.Context, participant *models.Participant, courseIDs []string) error
	Enroll(ctx context.Context, participantID, courseID string) error
	IsEnrolled(ctx context.Context, participantID, courseID string) (bool, error)
	ListWithCourses(ctx context.Context) ([]models.ParticipantWithCourses, error)
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.TrainingCourse, error)
	CountEnrolled(ctx context.Context, courseID string) (int, error)
}

// CreateParticipantRequest represents payload for registering a participant,
// optionally enrolling them in courses at the same time.
type CreateParticipantRequest struct {
	FirstName   string   `json:"first_name" validate:"required,max=64"`
	LastName    string   `json:"last_name" validate:"required,max=64"`
	Gender      string   `json:"gender" validate:"required,gender"`
	Email       string   `json:"email" validate:"required,email"`
	PhoneNumber string   `json:"phone_number" validate:"required,len=9,numeric"`
	CourseIDs   []string `json:"course_ids" validate:"omitempty,unique,dive,uuid"`
}

// AssignRequest links one existing participant to one course.
type AssignRequest struct {
	ParticipantID string `json:"participant_id" validate:"required,uuid"`
	CourseID      string `json:"course_id" validate:"required,uuid"`
}

// ParticipantService orchestrates participant registration and enrollment.
type ParticipantService struct {
	repo      participantRepository
	courses   enrollmentCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(repo participantRepository, courses enrollmentCourseRepository, validate *validator.Validate, logger *zap.Logger) *ParticipantService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantService{repo: repo, courses: courses, validator: validate, logger: logger, now: time.Now}
}

// List returns every participant with their enrolled courses.
func (s *ParticipantService) List(ctx context.Context) ([]models.ParticipantWithCourses, error) {
	participants, err := s.repo.ListWithCourses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
	}
	return participants, nil
}

// Create registers a participant and enrolls them in the requested courses.
// Each course is checked independently: it must exist and have a free spot.
// The whole request is rejected on the first course that fails, before
// anything is written.
func (s *ParticipantService) Create(ctx context.Context, req CreateParticipantRequest) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participant payload")
	}

	for _, courseID := range req.CourseIDs {
		if err := s.checkCapacity(ctx, courseID); err != nil {
			return nil, err
		}
	}

	participant := &models.Participant{
		Person: models.Person{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			Gender:      models.Gender(req.Gender),
			Email:       strings.TrimSpace(req.Email),
			PhoneNumber: req.PhoneNumber,
		},
	}

	if err := s.repo.CreateWithEnrollments(ctx, participant, req.CourseIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create participant")
	}
	s.logger.Info("participant created",
		zap.String("participant_id", participant.ID),
		zap.Int("courses", len(req.CourseIDs)))
	return participant, nil
}

// Assign enrolls an existing participant in an existing course, subject to
// the capacity check.
func (s *ParticipantService) Assign(ctx context.Context, req AssignRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.repo.FindByID(ctx, req.ParticipantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}

	enrolled, err := s.repo.IsEnrolled(ctx, req.ParticipantID, req.CourseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
	}

	if err := s.checkCapacity(ctx, req.CourseID); err != nil {
		return err
	}

	if err := s.repo.Enroll(ctx, req.ParticipantID, req.CourseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll participant")
	}
	return nil
}

// checkCapacity verifies the course exists, has not ended yet, and has room
// for one more participant. Only courses whose end time is still ahead are
// valid enrollment targets. The count is read here and not re-checked at
// insert time, so concurrent enrollments can overshoot the limit.
func (s *ParticipantService) checkCapacity(ctx context.Context, courseID string) error {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s does not exist", courseID))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if !course.EndTime.After(s.now()) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("course has already ended: %s", course.DisplayTopic()))
	}

	count, err := s.courses.CountEnrolled(ctx, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if count >= course.ParticipantsLimit {
		return appErrors.Clone(appErrors.ErrCapacityExceeded,
			fmt.Sprintf("participant limit reached for course: %s", course.DisplayTopic()))
	}
	return nil
}
