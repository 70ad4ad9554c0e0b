package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jkruzel/trainings-api/internal/models"
)

const courseColumns = `c.id, c.topic, c.start_time, c.end_time, c.category, c.path, c.formula,
	c.participants_limit, c.coach_id, c.took_place, c.materials, c.created_at, c.updated_at`

const courseDetailColumns = courseColumns + `,
	h.first_name || ' ' || h.last_name AS coach_name,
	(SELECT COUNT(*) FROM course_enrollments ce WHERE ce.course_id = c.id) AS enrolled_count`

// CourseRepository manages persistence for training courses and their
// enrollments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses ordered by start time, enriched with coach name
// and enrollment count.
func (r *CourseRepository) List(ctx context.Context) ([]models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM training_courses c
		JOIN humans h ON h.id = c.coach_id
		ORDER BY c.start_time`, courseDetailColumns)
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a bare course row.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.TrainingCourse, error) {
	query := fmt.Sprintf(`SELECT %s FROM training_courses c WHERE c.id = $1`, courseColumns)
	var course models.TrainingCourse
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID fetches a course with coach name and enrollment count.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM training_courses c
		JOIN humans h ON h.id = c.coach_id
		WHERE c.id = $1`, courseDetailColumns)
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.TrainingCourse) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.TookPlace == "" {
		course.TookPlace = models.TernaryUnknown
	}
	if course.Materials == "" {
		course.Materials = models.TernaryUnknown
	}

	const query = `INSERT INTO training_courses (id, topic, start_time, end_time, category, path, formula,
		participants_limit, coach_id, took_place, materials, created_at, updated_at)
		VALUES (:id, :topic, :start_time, :end_time, :category, :path, :formula,
		:participants_limit, :coach_id, :took_place, :materials, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// UpdateSchedule rewrites the editable fields of a future course.
func (r *CourseRepository) UpdateSchedule(ctx context.Context, course *models.TrainingCourse) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE training_courses SET start_time = :start_time, end_time = :end_time,
		coach_id = :coach_id, participants_limit = :participants_limit, updated_at = :updated_at
		WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course schedule: %w", err)
	}
	return nil
}

// UpdateOutcome rewrites the outcome flags of a past course.
func (r *CourseRepository) UpdateOutcome(ctx context.Context, id string, tookPlace, materials models.Ternary) error {
	const query = `UPDATE training_courses SET took_place = $2, materials = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, tookPlace, materials, time.Now().UTC()); err != nil {
		return fmt.Errorf("update course outcome: %w", err)
	}
	return nil
}

// ListByCoach returns all courses coached by the given employee.
func (r *CourseRepository) ListByCoach(ctx context.Context, coachID string) ([]models.TrainingCourse, error) {
	query := fmt.Sprintf(`SELECT %s FROM training_courses c WHERE c.coach_id = $1 ORDER BY c.start_time`, courseColumns)
	var courses []models.TrainingCourse
	if err := r.db.SelectContext(ctx, &courses, query, coachID); err != nil {
		return nil, fmt.Errorf("list courses by coach: %w", err)
	}
	return courses, nil
}

// ListToday returns courses whose start date equals the given reference
// date.
func (r *CourseRepository) ListToday(ctx context.Context, now time.Time) ([]models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM training_courses c
		JOIN humans h ON h.id = c.coach_id
		WHERE c.start_time::date = $1::date
		ORDER BY c.start_time`, courseDetailColumns)
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, now); err != nil {
		return nil, fmt.Errorf("list today's courses: %w", err)
	}
	return courses, nil
}

// ListPast returns courses whose end date is on or before the given
// reference date.
func (r *CourseRepository) ListPast(ctx context.Context, now time.Time) ([]models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM training_courses c
		JOIN humans h ON h.id = c.coach_id
		WHERE c.end_time::date <= $1::date
		ORDER BY c.start_time`, courseDetailColumns)
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, now); err != nil {
		return nil, fmt.Errorf("list past courses: %w", err)
	}
	return courses, nil
}

// CountEnrolled returns the current enrollment count for a course. Callers
// use this for the capacity check; the count is not re-validated at insert
// time.
func (r *CourseRepository) CountEnrolled(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM course_enrollments WHERE course_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseID); err != nil {
		return 0, fmt.Errorf("count enrolled participants: %w", err)
	}
	return count, nil
}
