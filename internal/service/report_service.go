package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jkruzel/trainings-api/internal/models"
	appErrors "github.com/jkruzel/trainings-api/pkg/errors"
	"github.com/jkruzel/trainings-api/pkg/export"
)

type reportEmployeeRepository interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	WorkloadTotals(ctx context.Context) ([]models.EmployeeWorkload, error)
}

type reportCourseRepository interface {
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ListByCoach(ctx context.Context, coachID string) ([]models.TrainingCourse, error)
	ListPast(ctx context.Context, now time.Time) ([]models.CourseDetail, error)
}

type reportParticipantRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Participant, error)
}

type reportPresenceRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.PresenceDetail, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderDocument(doc export.Document) ([]byte, error)
}

type chartRenderer interface {
	RenderBarBase64(title, yLabel string, labels []string, values []float64) (string, error)
}

type reportMetrics interface {
	ObserveReportRender(report string, duration time.Duration)
}

// Report is a rendered PDF with its download filename.
type Report struct {
	Filename string
	Content  []byte
}

// WorkloadChart is the coaching-hours bar chart with its underlying data.
type WorkloadChart struct {
	ImageBase64 string                    `json:"image_base64"`
	Workloads   []models.EmployeeWorkload `json:"workloads"`
}

// ReportService renders PDF reports and the coaching-hours chart. Every
// report is computed from live rows at request time.
type ReportService struct {
	employees    reportEmployeeRepository
	courses      reportCourseRepository
	participants reportParticipantRepository
	presence     reportPresenceRepository
	pdf          pdfRenderer
	chart        chartRenderer
	metrics      reportMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(
	employees reportEmployeeRepository,
	courses reportCourseRepository,
	participants reportParticipantRepository,
	presence reportPresenceRepository,
	pdf pdfRenderer,
	chart chartRenderer,
	metrics reportMetrics,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		employees:    employees,
		courses:      courses,
		participants: participants,
		presence:     presence,
		pdf:          pdf,
		chart:        chart,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ReportService) observeRender(report string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveReportRender(report, time.Since(started))
}

// Chart renders the per-employee coaching-hours bar chart.
func (s *ReportService) Chart(ctx context.Context) (*WorkloadChart, error) {
	workloads, err := s.employees.WorkloadTotals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workloads")
	}
	if len(workloads) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no employees to chart")
	}

	labels := make([]string, len(workloads))
	values := make([]float64, len(workloads))
	for i, workload := range workloads {
		labels[i] = workload.FullName()
		values[i] = workload.TotalHours()
	}

	started := time.Now()
	image, err := s.chart.RenderBarBase64("Coaching hours per employee", "hours", labels, values)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render chart")
	}
	s.observeRender("workload_chart", started)
	return &WorkloadChart{ImageBase64: image, Workloads: workloads}, nil
}

// CoursePDF renders one course's details and roster.
func (s *ReportService) CoursePDF(ctx context.Context, courseID string) (*Report, error) {
	course, err := s.courses.FindDetailByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	participants, err := s.participants.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
	}

	doc := export.Document{
		Title: course.DisplayTopic(),
		Info: [][2]string{
			{"Coach", course.CoachName},
			{"Category", string(course.Category)},
			{"Path", string(course.Path)},
			{"Start", course.StartTime.Format("2006-01-02 15:04")},
			{"End", course.EndTime.Format("2006-01-02 15:04")},
			{"Capacity", fmt.Sprintf("%d / %d", course.EnrolledCount, course.ParticipantsLimit)},
			{"Took place", string(course.TookPlace)},
			{"Materials", string(course.Materials)},
		},
	}

	roster := export.Dataset{Headers: []string{"Last name", "First name", "Email"}}
	for _, p := range participants {
		roster.Rows = append(roster.Rows, map[string]string{
			"Last name":  p.LastName,
			"First name": p.FirstName,
			"Email":      p.Email,
		})
	}
	doc.Sections = append(doc.Sections, export.Section{Heading: "Participants", Data: roster})

	if course.TookPlace == models.TernaryYes {
		records, err := s.presence.ListByCourse(ctx, courseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presence")
		}
		attendance := export.Dataset{Headers: []string{"Last name", "First name", "Present"}}
		for _, record := range records {
			attendance.Rows = append(attendance.Rows, map[string]string{
				"Last name":  record.LastName,
				"First name": record.FirstName,
				"Present":    string(record.Present),
			})
		}
		doc.Sections = append(doc.Sections, export.Section{Heading: "Attendance", Data: attendance})
	}

	started := time.Now()
	content, err := s.pdf.RenderDocument(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	s.observeRender("course_pdf", started)
	return &Report{Filename: fmt.Sprintf("course_%s.pdf", slugify(course.Topic)), Content: content}, nil
}

// PastCoursesPDF renders every course already finished by the current date.
func (s *ReportService) PastCoursesPDF(ctx context.Context) (*Report, error) {
	courses, err := s.courses.ListPast(ctx, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past courses")
	}

	data := export.Dataset{Headers: []string{"Topic", "Coach", "Start", "End", "Took place", "Materials"}}
	for _, course := range courses {
		data.Rows = append(data.Rows, map[string]string{
			"Topic":      course.DisplayTopic(),
			"Coach":      course.CoachName,
			"Start":      course.StartTime.Format("2006-01-02 15:04"),
			"End":        course.EndTime.Format("2006-01-02 15:04"),
			"Took place": string(course.TookPlace),
			"Materials":  string(course.Materials),
		})
	}

	started := time.Now()
	content, err := s.pdf.Render(data, "Past courses")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	s.observeRender("past_courses_pdf", started)
	return &Report{Filename: "past_courses.pdf", Content: content}, nil
}

// EmployeeCoursesPDF renders one employee's coached courses and their summed
// duration.
func (s *ReportService) EmployeeCoursesPDF(ctx context.Context, employeeID string) (*Report, error) {
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	courses, err := s.courses.ListByCoach(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coached courses")
	}

	var total time.Duration
	data := export.Dataset{Headers: []string{"Topic", "Start", "End", "Duration"}}
	for _, course := range courses {
		total += course.Duration()
		data.Rows = append(data.Rows, map[string]string{
			"Topic":    course.DisplayTopic(),
			"Start":    course.StartTime.Format("2006-01-02 15:04"),
			"End":      course.EndTime.Format("2006-01-02 15:04"),
			"Duration": formatDuration(course.Duration()),
		})
	}

	doc := export.Document{
		Title: fmt.Sprintf("Courses coached by %s", employee.FullName()),
		Info: [][2]string{
			{"Position", employee.Position},
			{"Company", employee.Company},
			{"Total coaching time", formatDuration(total)},
		},
		Sections: []export.Section{{Heading: "Courses", Data: data}},
	}

	started := time.Now()
	content, err := s.pdf.RenderDocument(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	s.observeRender("employee_courses_pdf", started)
	filename := fmt.Sprintf("%s_%s_courses.pdf", slugify(employee.FirstName), slugify(employee.LastName))
	return &Report{Filename: filename, Content: content}, nil
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// slugify keeps download filenames header-safe.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	return b.String()
}
