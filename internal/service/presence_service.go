package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jkruzel/trainings-api/internal/models"
	appErrors "github.com/jkruzel/trainings-api/pkg/errors"
)

type presenceRepository interface {
	Upsert(ctx context.Context, record *models.PresenceRecord) error
	ListByCourse(ctx context.Context, courseID string) ([]models.PresenceDetail, error)
}

type presenceCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.TrainingCourse, error)
}

type presenceEnrollmentRepository interface {
	IsEnrolled(ctx context.Context, participantID, courseID string) (bool, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Participant, error)
}

// RecordPresenceRequest marks one participant present or absent at a course.
type RecordPresenceRequest struct {
	ParticipantID string `json:"participant_id" validate:"required,uuid"`
	Present       string `json:"present" validate:"required,presence"`
}

// CourseRoster lists a course's participants and, once the course is
// confirmed to have taken place, their attendance.
type CourseRoster struct {
	Course       models.TrainingCourse   `json:"course"`
	Participants []models.Participant    `json:"participants"`
	Presence     []models.PresenceDetail `json:"presence,omitempty"`
}

// PresenceService manages attendance records.
type PresenceService struct {
	repo        presenceRepository
	courses     presenceCourseRepository
	enrollments presenceEnrollmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPresenceService constructs a PresenceService.
func NewPresenceService(repo presenceRepository, courses presenceCourseRepository, enrollments presenceEnrollmentRepository, validate *validator.Validate, logger *zap.Logger) *PresenceService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceService{repo: repo, courses: courses, enrollments: enrollments, validator: validate, logger: logger}
}

// Record upserts one attendance value for an enrolled participant.
func (s *PresenceService) Record(ctx context.Context, courseID string, req RecordPresenceRequest) (*models.PresenceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid presence payload")
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, req.ParticipantID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "participant is not enrolled in this course")
	}

	record := &models.PresenceRecord{
		ParticipantID: req.ParticipantID,
		CourseID:      courseID,
		Present:       models.Ternary(req.Present),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record presence")
	}
	return record, nil
}

// ListByCourse returns the stored presence rows for a course.
func (s *PresenceService) ListByCourse(ctx context.Context, courseID string) ([]models.PresenceDetail, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	records, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presence")
	}
	return records, nil
}

// Roster returns the course's participants. Attendance rows are attached
// only once the course is confirmed to have taken place.
func (s *PresenceService) Roster(ctx context.Context, courseID string) (*CourseRoster, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	participants, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
	}

	roster := &CourseRoster{Course: *course, Participants: participants}
	if course.TookPlace == models.TernaryYes {
		presence, err := s.repo.ListByCourse(ctx, courseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presence")
		}
		roster.Presence = presence
	}
	return roster, nil
}
