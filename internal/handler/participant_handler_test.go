package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkruzel/trainings-api/internal/models"
	"github.com/jkruzel/trainings-api/internal/service"
	appErrors "github.com/jkruzel/trainings-api/pkg/errors"
)

type participantServiceMock struct {
	createResp   *models.Participant
	createErr    error
	assignErr    error
	createCalled bool
	assignCalled bool
	lastCreate   service.CreateParticipantRequest
}

func (m *participantServiceMock) List(ctx context.Context) ([]models.ParticipantWithCourses, error) {
	return nil, nil
}

func (m *participantServiceMock) Create(ctx context.Context, req service.CreateParticipantRequest) (*models.Participant, error) {
	m.createCalled = true
	m.lastCreate = req
	return m.createResp, m.createErr
}

func (m *participantServiceMock) Assign(ctx context.Context, req service.AssignRequest) error {
	m.assignCalled = true
	return m.assignErr
}

func TestParticipantHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &participantServiceMock{createResp: &models.Participant{ID: "part-1"}}
	handler := NewParticipantHandler(mockSvc)

	body := `{"first_name":"Ewa","last_name":"Maj","gender":"FEMALE","email":"ewa@example.com","phone_number":"123456789","course_ids":["aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"]}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
	assert.Len(t, mockSvc.lastCreate.CourseIDs, 1)
}

func TestParticipantHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &participantServiceMock{}
	handler := NewParticipantHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"first_name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.createCalled)
}

func TestParticipantHandlerAssignCapacityExceeded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &participantServiceMock{
		assignErr: appErrors.Clone(appErrors.ErrCapacityExceeded, "participant limit reached for course: Feedback (online)"),
	}
	handler := NewParticipantHandler(mockSvc)

	body := `{"participant_id":"cccccccc-cccc-4ccc-8ccc-cccccccccccc","course_id":"aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Assign(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, mockSvc.assignCalled)
	assert.Contains(t, w.Body.String(), "CAPACITY_EXCEEDED")
}
