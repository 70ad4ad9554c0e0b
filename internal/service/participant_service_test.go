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

type participantRepoMock struct {
	participants map[string]*models.Participant
	enrolled     map[string]bool
	createCalled bool
	enrollCalled bool
	lastCourses  []string
}

func (m *participantRepoMock) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	if p, ok := m.participants[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *participantRepoMock) CreateWithEnrollments(ctx context.Context, participant *models.Participant, courseIDs []string) error {
	m.createCalled = true
	m.lastCourses = courseIDs
	participant.ID = "part-new"
	return nil
}

func (m *participantRepoMock) Enroll(ctx context.Context, participantID, courseID string) error {
	m.enrollCalled = true
	return nil
}

func (m *participantRepoMock) IsEnrolled(ctx context.Context, participantID, courseID string) (bool, error) {
	return m.enrolled[participantID+"/"+courseID], nil
}

func (m *participantRepoMock) ListWithCourses(ctx context.Context) ([]models.ParticipantWithCourses, error) {
	return nil, nil
}

type enrollmentCourseRepoMock struct {
	courses map[string]*models.TrainingCourse
	counts  map[string]int
}

func (m *enrollmentCourseRepoMock) FindByID(ctx context.Context, id string) (*models.TrainingCourse, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *enrollmentCourseRepoMock) CountEnrolled(ctx context.Context, courseID string) (int, error) {
	return m.counts[courseID], nil
}

func validCreateParticipantRequest(courseIDs ...string) CreateParticipantRequest {
	return CreateParticipantRequest{
		FirstName:   "Ewa",
		LastName:    "Maj",
		Gender:      "FEMALE",
		Email:       "ewa.maj@example.com",
		PhoneNumber: "123456789",
		CourseIDs:   courseIDs,
	}
}

// openCourse is a valid enrollment target: it ends in the future.
func openCourse(id, topic string, formula models.Formula, limit int) *models.TrainingCourse {
	return &models.TrainingCourse{
		ID:                id,
		Topic:             topic,
		Formula:           formula,
		ParticipantsLimit: limit,
		StartTime:         fixedNow.AddDate(0, 0, 2),
		EndTime:           fixedNow.AddDate(0, 0, 2).Add(3 * time.Hour),
	}
}

func newParticipantServiceForTest(repo *participantRepoMock, courses *enrollmentCourseRepoMock) *ParticipantService {
	svc := NewParticipantService(repo, courses, nil, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

const (
	courseA = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	courseB = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
	partID  = "cccccccc-cccc-4ccc-8ccc-cccccccccccc"
)

func TestParticipantServiceCreateWithinLimit(t *testing.T) {
	repo := &participantRepoMock{}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{
			courseA: openCourse(courseA, "Effective Feedback", models.FormulaOnline, 10),
		},
		counts: map[string]int{courseA: 9},
	}
	svc := newParticipantServiceForTest(repo, courses)

	participant, err := svc.Create(context.Background(), validCreateParticipantRequest(courseA))
	require.NoError(t, err)
	assert.True(t, repo.createCalled)
	assert.Equal(t, []string{courseA}, repo.lastCourses)
	assert.Equal(t, "part-new", participant.ID)
}

func TestParticipantServiceCreateRejectsFullCourse(t *testing.T) {
	repo := &participantRepoMock{}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{
			courseA: openCourse(courseA, "Effective Feedback", models.FormulaOnline, 10),
		},
		counts: map[string]int{courseA: 10},
	}
	svc := newParticipantServiceForTest(repo, courses)

	_, err := svc.Create(context.Background(), validCreateParticipantRequest(courseA))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Effective Feedback (online)")
	assert.False(t, repo.createCalled)
}

func TestParticipantServiceCreateRejectsEndedCourse(t *testing.T) {
	ended := openCourse(courseA, "Old Workshop", models.FormulaInPerson, 10)
	ended.StartTime = fixedNow.AddDate(0, 0, -10)
	ended.EndTime = fixedNow.AddDate(0, 0, -9)

	repo := &participantRepoMock{}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{courseA: ended},
		counts:  map[string]int{courseA: 0},
	}
	svc := newParticipantServiceForTest(repo, courses)

	_, err := svc.Create(context.Background(), validCreateParticipantRequest(courseA))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Old Workshop (in-person)")
	assert.False(t, repo.createCalled)
}

func TestParticipantServiceCreateRejectsCourseEndingNow(t *testing.T) {
	// End time equal to the current instant is no longer in the future.
	closing := openCourse(courseA, "Closing", models.FormulaOnline, 10)
	closing.EndTime = fixedNow

	repo := &participantRepoMock{}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{courseA: closing},
	}
	svc := newParticipantServiceForTest(repo, courses)

	_, err := svc.Create(context.Background(), validCreateParticipantRequest(courseA))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.createCalled)
}

func TestParticipantServiceCreateChecksEachCourse(t *testing.T) {
	// Second course is full; nothing may be written even though the first
	// course has room.
	repo := &participantRepoMock{}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{
			courseA: openCourse(courseA, "Feedback", models.FormulaOnline, 10),
			courseB: openCourse(courseB, "Negotiations", models.FormulaInPerson, 5),
		},
		counts: map[string]int{courseA: 2, courseB: 5},
	}
	svc := newParticipantServiceForTest(repo, courses)

	_, err := svc.Create(context.Background(), validCreateParticipantRequest(courseA, courseB))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Negotiations (in-person)")
	assert.False(t, repo.createCalled)
}

func TestParticipantServiceCreateRejectsDuplicateCourses(t *testing.T) {
	repo := &participantRepoMock{}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{
			courseA: openCourse(courseA, "Feedback", models.FormulaOnline, 10),
		},
	}
	svc := newParticipantServiceForTest(repo, courses)

	_, err := svc.Create(context.Background(), validCreateParticipantRequest(courseA, courseA))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.createCalled)
}

func TestParticipantServiceCreateUnknownCourse(t *testing.T) {
	repo := &participantRepoMock{}
	courses := &enrollmentCourseRepoMock{courses: map[string]*models.TrainingCourse{}}
	svc := newParticipantServiceForTest(repo, courses)

	_, err := svc.Create(context.Background(), validCreateParticipantRequest(courseA))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.False(t, repo.createCalled)
}

func TestParticipantServiceCreateInvalidPhone(t *testing.T) {
	svc := newParticipantServiceForTest(&participantRepoMock{}, &enrollmentCourseRepoMock{})

	req := validCreateParticipantRequest()
	req.PhoneNumber = "12345"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParticipantServiceAssignDuplicate(t *testing.T) {
	repo := &participantRepoMock{
		participants: map[string]*models.Participant{partID: {ID: partID}},
		enrolled:     map[string]bool{partID + "/" + courseA: true},
	}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{
			courseA: openCourse(courseA, "Feedback", models.FormulaOnline, 10),
		},
	}
	svc := newParticipantServiceForTest(repo, courses)

	err := svc.Assign(context.Background(), AssignRequest{ParticipantID: partID, CourseID: courseA})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.enrollCalled)
}

func TestParticipantServiceAssignSuccess(t *testing.T) {
	repo := &participantRepoMock{
		participants: map[string]*models.Participant{partID: {ID: partID}},
		enrolled:     map[string]bool{},
	}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{
			courseA: openCourse(courseA, "Feedback", models.FormulaOnline, 10),
		},
		counts: map[string]int{courseA: 3},
	}
	svc := newParticipantServiceForTest(repo, courses)

	err := svc.Assign(context.Background(), AssignRequest{ParticipantID: partID, CourseID: courseA})
	require.NoError(t, err)
	assert.True(t, repo.enrollCalled)
}

func TestParticipantServiceAssignRejectsEndedCourse(t *testing.T) {
	ended := openCourse(courseA, "Old Workshop", models.FormulaOnline, 10)
	ended.StartTime = fixedNow.AddDate(0, 0, -10)
	ended.EndTime = fixedNow.AddDate(0, 0, -9)

	repo := &participantRepoMock{
		participants: map[string]*models.Participant{partID: {ID: partID}},
		enrolled:     map[string]bool{},
	}
	courses := &enrollmentCourseRepoMock{
		courses: map[string]*models.TrainingCourse{courseA: ended},
		counts:  map[string]int{courseA: 0},
	}
	svc := newParticipantServiceForTest(repo, courses)

	err := svc.Assign(context.Background(), AssignRequest{ParticipantID: partID, CourseID: courseA})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "already ended")
	assert.False(t, repo.enrollCalled)
}

func TestParticipantServiceAssignUnknownParticipant(t *testing.T) {
	repo := &participantRepoMock{participants: map[string]*models.Participant{}}
	svc := newParticipantServiceForTest(repo, &enrollmentCourseRepoMock{})

	err := svc.Assign(context.Background(), AssignRequest{ParticipantID: partID, CourseID: courseA})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
