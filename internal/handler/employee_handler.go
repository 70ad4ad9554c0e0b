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

type employeeService interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeSummary, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, req service.CreateEmployeeRequest) (*models.Employee, error)
	Update(ctx context.Context, id string, req service.UpdateEmployeeRequest) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
	Courses(ctx context.Context, id string) (*service.EmployeeCourses, error)
}

type employeeReportService interface {
	Chart(ctx context.Context) (*service.WorkloadChart, error)
	EmployeeCoursesPDF(ctx context.Context, employeeID string) (*service.Report, error)
}

// EmployeeHandler exposes employee management endpoints.
type EmployeeHandler struct {
	service employeeService
	reports employeeReportService
}

// NewEmployeeHandler builds a new handler.
func NewEmployeeHandler(service employeeService, reports employeeReportService) *EmployeeHandler {
	return &EmployeeHandler{service: service, reports: reports}
}

// List returns employees with coaching totals.
func (h *EmployeeHandler) List(c *gin.Context) {
	filter := models.EmployeeFilter{
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	employees, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, pagination)
}

// Get returns one employee.
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Create registers a new employee.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	employee, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employee)
}

// Update edits an employee's contact and job attributes.
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	employee, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Delete removes an employee unless they coach a course.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Courses returns an employee's coached courses with the summed duration.
func (h *EmployeeHandler) Courses(c *gin.Context) {
	result, err := h.service.Courses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CoursesPDF downloads an employee's coached courses as a PDF.
func (h *EmployeeHandler) CoursesPDF(c *gin.Context) {
	report, err := h.reports.EmployeeCoursesPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "application/pdf", report.Filename, report.Content)
}

// Chart returns the coaching-hours bar chart as a base64 PNG.
func (h *EmployeeHandler) Chart(c *gin.Context) {
	chart, err := h.reports.Chart(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chart, nil)
}
