package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jkruzel/trainings-api/internal/models"
)

// PresenceRepository manages per-participant, per-course attendance rows.
type PresenceRepository struct {
	db *sqlx.DB
}

// NewPresenceRepository constructs a PresenceRepository.
func NewPresenceRepository(db *sqlx.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// Upsert records attendance for one participant at one course. The row is
// keyed by (participant_id, course_id); resubmission overwrites the prior
// value instead of creating a second row.
func (r *PresenceRepository) Upsert(ctx context.Context, record *models.PresenceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.RecordedAt = time.Now().UTC()

	const query = `INSERT INTO presence_lists (id, participant_id, course_id, present, recorded_at)
		VALUES (:id, :participant_id, :course_id, :present, :recorded_at)
		ON CONFLICT (participant_id, course_id)
		DO UPDATE SET present = EXCLUDED.present, recorded_at = EXCLUDED.recorded_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

// ListByCourse returns the course's presence rows joined with participant
// identity.
func (r *PresenceRepository) ListByCourse(ctx context.Context, courseID string) ([]models.PresenceDetail, error) {
	const query = `SELECT pl.id, pl.participant_id, pl.course_id, pl.present, pl.recorded_at,
		h.first_name, h.last_name, h.email
		FROM presence_lists pl
		JOIN humans h ON h.id = pl.participant_id
		WHERE pl.course_id = $1
		ORDER BY h.last_name, h.first_name`
	var records []models.PresenceDetail
	if err := r.db.SelectContext(ctx, &records, query, courseID); err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}
	return records, nil
}
