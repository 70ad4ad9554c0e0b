package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jkruzel/trainings-api/internal/models"
)

const participantColumns = `p.id, h.first_name, h.last_name, h.gender, h.email, h.phone_number, h.created_at, h.updated_at`

// ParticipantRepository manages persistence for participants and their
// course enrollments.
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository constructs a ParticipantRepository.
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// FindByID fetches a participant by ID.
func (r *ParticipantRepository) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants p JOIN humans h ON h.id = p.id WHERE p.id = $1`, participantColumns)
	var participant models.Participant
	if err := r.db.GetContext(ctx, &participant, query, id); err != nil {
		return nil, err
	}
	return &participant, nil
}

// CreateWithEnrollments inserts the participant (human base plus extension
// row) and all requested enrollments in a single transaction.
func (r *ParticipantRepository) CreateWithEnrollments(ctx context.Context, participant *models.Participant, courseIDs []string) error {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	participant.CreatedAt = now
	participant.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create participant: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const humanQuery = `INSERT INTO humans (id, first_name, last_name, gender, email, phone_number, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :gender, :email, :phone_number, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, humanQuery, participant); err != nil {
		return fmt.Errorf("create participant human: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO participants (id) VALUES ($1)`, participant.ID); err != nil {
		return fmt.Errorf("create participant: %w", err)
	}

	const enrollQuery = `INSERT INTO course_enrollments (participant_id, course_id, enrolled_at) VALUES ($1, $2, $3)`
	for _, courseID := range courseIDs {
		if _, err := tx.ExecContext(ctx, enrollQuery, participant.ID, courseID, now); err != nil {
			return fmt.Errorf("enroll participant in course %s: %w", courseID, err)
		}
	}

	return tx.Commit()
}

// Enroll links an existing participant to a course.
func (r *ParticipantRepository) Enroll(ctx context.Context, participantID, courseID string) error {
	const query = `INSERT INTO course_enrollments (participant_id, course_id, enrolled_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, participantID, courseID, time.Now().UTC()); err != nil {
		return fmt.Errorf("enroll participant: %w", err)
	}
	return nil
}

// IsEnrolled checks whether the participant is already linked to the course.
func (r *ParticipantRepository) IsEnrolled(ctx context.Context, participantID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM course_enrollments WHERE participant_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, participantID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// ListByCourse returns the participants enrolled in a course.
func (r *ParticipantRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants p
		JOIN humans h ON h.id = p.id
		JOIN course_enrollments ce ON ce.participant_id = p.id
		WHERE ce.course_id = $1
		ORDER BY h.last_name, h.first_name`, participantColumns)
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, query, courseID); err != nil {
		return nil, fmt.Errorf("list course participants: %w", err)
	}
	return participants, nil
}

// ListWithCourses returns every participant together with their enrolled
// courses.
func (r *ParticipantRepository) ListWithCourses(ctx context.Context) ([]models.ParticipantWithCourses, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants p JOIN humans h ON h.id = p.id ORDER BY h.last_name, h.first_name`, participantColumns)
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, query); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	type enrolledCourse struct {
		ParticipantID string `db:"participant_id"`
		models.TrainingCourse
	}
	const courseQuery = `SELECT ce.participant_id, c.id, c.topic, c.start_time, c.end_time, c.category, c.path,
		c.formula, c.participants_limit, c.coach_id, c.took_place, c.materials, c.created_at, c.updated_at
		FROM course_enrollments ce
		JOIN training_courses c ON c.id = ce.course_id
		ORDER BY c.start_time`
	var enrolled []enrolledCourse
	if err := r.db.SelectContext(ctx, &enrolled, courseQuery); err != nil {
		return nil, fmt.Errorf("list participant courses: %w", err)
	}

	byParticipant := make(map[string][]models.TrainingCourse, len(participants))
	for _, row := range enrolled {
		byParticipant[row.ParticipantID] = append(byParticipant[row.ParticipantID], row.TrainingCourse)
	}

	result := make([]models.ParticipantWithCourses, 0, len(participants))
	for _, participant := range participants {
		result = append(result, models.ParticipantWithCourses{
			Participant: participant,
			Courses:     byParticipant[participant.ID],
		})
	}
	return result, nil
}
