package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jkruzel/trainings-api/internal/models"
	appErrors "github.com/jkruzel/trainings-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.CourseDetail, error)
	FindByID(ctx context.Context, id string) (*models.TrainingCourse, error)
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.TrainingCourse) error
	UpdateSchedule(ctx context.Context, course *models.TrainingCourse) error
	UpdateOutcome(ctx context.Context, id string, tookPlace, materials models.Ternary) error
	ListToday(ctx context.Context, now time.Time) ([]models.CourseDetail, error)
}

type coachLookup interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// CreateCourseRequest represents payload for scheduling a course.
type CreateCourseRequest struct {
	Topic             string    `json:"topic" validate:"required,max=256"`
	StartTime         time.Time `json:"start_time" validate:"required"`
	EndTime           time.Time `json:"end_time" validate:"required"`
	Category          string    `json:"category" validate:"required,course_category"`
	Path              string    `json:"path" validate:"required,course_path"`
	Formula           string    `json:"formula" validate:"required,course_formula"`
	ParticipantsLimit int       `json:"participants_limit" validate:"required,min=1"`
	CoachID           string    `json:"coach_id" validate:"required,uuid"`
}

// UpdateCourseRequest carries both editing regimes. Which fields apply
// depends on the course's phase: schedule fields for future courses, outcome
// fields for past ones. Supplying fields from the wrong regime is rejected.
type UpdateCourseRequest struct {
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	CoachID           *string    `json:"coach_id" validate:"omitempty,uuid"`
	ParticipantsLimit *int       `json:"participants_limit" validate:"omitempty,min=0"`
	TookPlace         *string    `json:"took_place" validate:"omitempty,ternary"`
	Materials         *string    `json:"materials" validate:"omitempty,ternary"`
}

func (r UpdateCourseRequest) hasScheduleFields() bool {
	return r.StartTime != nil || r.EndTime != nil || r.CoachID != nil || r.ParticipantsLimit != nil
}

func (r UpdateCourseRequest) hasOutcomeFields() bool {
	return r.TookPlace != nil || r.Materials != nil
}

// CourseView is a course detail annotated with derived fields.
type CourseView struct {
	models.CourseDetail
	Phase           models.CoursePhase `json:"phase"`
	DurationSeconds int64              `json:"duration_seconds"`
}

// CourseService orchestrates course operations.
type CourseService struct {
	repo      courseRepository
	coaches   coachLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, coaches coachLookup, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, coaches: coaches, validator: validate, logger: logger, now: time.Now}
}

func (s *CourseService) view(detail models.CourseDetail) CourseView {
	return CourseView{
		CourseDetail:    detail,
		Phase:           detail.Phase(s.now()),
		DurationSeconds: int64(detail.Duration().Seconds()),
	}
}

// List returns every course with derived phase and duration.
func (s *CourseService) List(ctx context.Context) ([]CourseView, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	views := make([]CourseView, 0, len(courses))
	for _, course := range courses {
		views = append(views, s.view(course))
	}
	return views, nil
}

// Get returns a single course with derived phase and duration.
func (s *CourseService) Get(ctx context.Context, id string) (*CourseView, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	view := s.view(*detail)
	return &view, nil
}

// Create schedules a new course. The coach must be an existing employee.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.TrainingCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	if _, err := s.coaches.FindByID(ctx, req.CoachID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "coach does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coach")
	}

	course := &models.TrainingCourse{
		Topic:             req.Topic,
		StartTime:         req.StartTime.UTC(),
		EndTime:           req.EndTime.UTC(),
		Category:          models.Category(req.Category),
		Path:              models.Path(req.Path),
		Formula:           models.Formula(req.Formula),
		ParticipantsLimit: req.ParticipantsLimit,
		CoachID:           req.CoachID,
		TookPlace:         models.TernaryUnknown,
		Materials:         models.TernaryUnknown,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("topic", course.Topic))
	return course, nil
}

// Update edits a course according to its phase. A future course accepts
// schedule changes only; a past course accepts outcome changes only.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.TrainingCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	switch course.Phase(s.now()) {
	case models.CoursePhaseFuture:
		if req.hasOutcomeFields() {
			return nil, appErrors.Clone(appErrors.ErrCourseNotStarted, "")
		}
		return s.updateSchedule(ctx, course, req)
	default:
		if req.hasScheduleFields() {
			return nil, appErrors.Clone(appErrors.ErrCourseLocked, "")
		}
		return s.updateOutcome(ctx, course, req)
	}
}

func (s *CourseService) updateSchedule(ctx context.Context, course *models.TrainingCourse, req UpdateCourseRequest) (*models.TrainingCourse, error) {
	if req.StartTime != nil {
		course.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		course.EndTime = req.EndTime.UTC()
	}
	if req.CoachID != nil {
		if _, err := s.coaches.FindByID(ctx, *req.CoachID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "coach does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coach")
		}
		course.CoachID = *req.CoachID
	}
	if req.ParticipantsLimit != nil {
		course.ParticipantsLimit = *req.ParticipantsLimit
	}

	if err := s.repo.UpdateSchedule(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

func (s *CourseService) updateOutcome(ctx context.Context, course *models.TrainingCourse, req UpdateCourseRequest) (*models.TrainingCourse, error) {
	if req.TookPlace != nil {
		course.TookPlace = models.Ternary(*req.TookPlace)
	}
	if req.Materials != nil {
		course.Materials = models.Ternary(*req.Materials)
	}

	if err := s.repo.UpdateOutcome(ctx, course.ID, course.TookPlace, course.Materials); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course outcome")
	}
	return course, nil
}

// Today returns the courses starting on the current calendar date.
func (s *CourseService) Today(ctx context.Context) ([]CourseView, error) {
	courses, err := s.repo.ListToday(ctx, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list today's courses")
	}
	views := make([]CourseView, 0, len(courses))
	for _, course := range courses {
		views = append(views, s.view(course))
	}
	return views, nil
}
