package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jkruzel/trainings-api/internal/models"
	"github.com/jkruzel/trainings-api/internal/service"
	appErrors "github.com/jkruzel/trainings-api/pkg/errors"
	"github.com/jkruzel/trainings-api/pkg/response"
)

type participantService interface {
	List(ctx context.Context) ([]models.ParticipantWithCourses, error)
	Create(ctx context.Context, req service.CreateParticipantRequest) (*models.Participant, error)
	Assign(ctx context.Context, req service.AssignRequest) error
}

// ParticipantHandler exposes participant management endpoints.
type ParticipantHandler struct {
	service participantService
}

// NewParticipantHandler builds a new handler.
func NewParticipantHandler(service participantService) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

// List returns all participants with their courses.
func (h *ParticipantHandler) List(c *gin.Context) {
	participants, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participants, nil)
}

// Create registers a participant, optionally enrolling them in courses.
func (h *ParticipantHandler) Create(c *gin.Context) {
	var req service.CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid participant payload"))
		return
	}
	participant, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, participant)
}

// Assign enrolls an existing participant in a course.
func (h *ParticipantHandler) Assign(c *gin.Context) {
	var req service.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}
	if err := h.service.Assign(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"participant_id": req.ParticipantID, "course_id": req.CourseID})
}
