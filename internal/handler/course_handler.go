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

type courseService interface {
	List(ctx context.Context) ([]service.CourseView, error)
	Get(ctx context.Context, id string) (*service.CourseView, error)
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.TrainingCourse, error)
	Update(ctx context.Context, id string, req service.UpdateCourseRequest) (*models.TrainingCourse, error)
	Today(ctx context.Context) ([]service.CourseView, error)
}

type presenceService interface {
	Record(ctx context.Context, courseID string, req service.RecordPresenceRequest) (*models.PresenceRecord, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.PresenceDetail, error)
	Roster(ctx context.Context, courseID string) (*service.CourseRoster, error)
}

type courseReportService interface {
	CoursePDF(ctx context.Context, courseID string) (*service.Report, error)
	PastCoursesPDF(ctx context.Context) (*service.Report, error)
}

// CourseHandler exposes course management endpoints.
type CourseHandler struct {
	service  courseService
	presence presenceService
	reports  courseReportService
}

// NewCourseHandler builds a new handler.
func NewCourseHandler(service courseService, presence presenceService, reports courseReportService) *CourseHandler {
	return &CourseHandler{service: service, presence: presence, reports: reports}
}

// List returns every course with phase and duration.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get returns one course.
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create schedules a new course.
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update edits a course according to its phase.
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Today returns courses starting on the current date.
func (h *CourseHandler) Today(c *gin.Context) {
	courses, err := h.service.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// PDF downloads one course's details and roster as a PDF.
func (h *CourseHandler) PDF(c *gin.Context) {
	report, err := h.reports.CoursePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "application/pdf", report.Filename, report.Content)
}

// PastPDF downloads all finished courses as a PDF.
func (h *CourseHandler) PastPDF(c *gin.Context) {
	report, err := h.reports.PastCoursesPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "application/pdf", report.Filename, report.Content)
}

// Participants returns the course roster, with attendance once the course
// is confirmed to have taken place.
func (h *CourseHandler) Participants(c *gin.Context) {
	roster, err := h.presence.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// GetPresence returns the stored attendance rows for a course.
func (h *CourseHandler) GetPresence(c *gin.Context) {
	records, err := h.presence.ListByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// PutPresence records attendance for one participant.
func (h *CourseHandler) PutPresence(c *gin.Context) {
	var req service.RecordPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid presence payload"))
		return
	}
	record, err := h.presence.Record(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
