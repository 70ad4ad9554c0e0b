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

func TestCourseRepositoryCountEnrolled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course_enrollments WHERE course_id = $1")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountEnrolled(context.Background(), "course-1")
	require.NoError(t, err)
	require.Equal(t, 7, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListToday(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "topic", "start_time", "end_time", "category", "path", "formula",
		"participants_limit", "coach_id", "took_place", "materials", "created_at", "updated_at",
		"coach_name", "enrolled_count",
	}).AddRow(
		"course-1", "Effective Feedback", now, now.Add(2*time.Hour),
		models.CategoryTraining, models.PathLeadership, models.FormulaOnline,
		12, "emp-1", models.TernaryUnknown, models.TernaryUnknown, now, now,
		"Anna Nowak", 5,
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.start_time::date = $1::date")).
		WithArgs(now).
		WillReturnRows(rows)

	courses, err := repo.ListToday(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "Anna Nowak", courses[0].CoachName)
	require.Equal(t, 5, courses[0].EnrolledCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdateOutcome(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE training_courses SET took_place = $2, materials = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("course-1", models.TernaryYes, models.TernaryNo, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateOutcome(context.Background(), "course-1", models.TernaryYes, models.TernaryNo)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
