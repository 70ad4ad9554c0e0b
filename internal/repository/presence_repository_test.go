package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/jkruzel/trainings-api/internal/models"
)

func TestPresenceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPresenceRepository(db)

	mock.ExpectExec("INSERT INTO presence_lists").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.PresenceRecord{
		ParticipantID: "part-1",
		CourseID:      "course-1",
		Present:       models.TernaryYes,
	}
	require.NoError(t, repo.Upsert(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.False(t, record.RecordedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPresenceRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPresenceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "participant_id", "course_id", "present", "recorded_at", "first_name", "last_name", "email"}).
		AddRow("pl-1", "part-1", "course-1", models.TernaryYes, now, "Ewa", "Maj", "ewa@example.com").
		AddRow("pl-2", "part-2", "course-1", models.TernaryNo, now, "Piotr", "Zima", "piotr@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("JOIN humans h ON h.id = pl.participant_id")).
		WithArgs("course-1").
		WillReturnRows(rows)

	records, err := repo.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, models.TernaryYes, records[0].Present)
	require.Equal(t, "Maj", records[0].LastName)
	require.NoError(t, mock.ExpectationsWereMet())
}
