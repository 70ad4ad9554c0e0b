package models

import "time"

// Employee is a person who can coach training courses.
type Employee struct {
	ID string `db:"id" json:"id"`
	Person
	Position   string    `db:"position" json:"position"`
	Company    string    `db:"company" json:"company"`
	Team       string    `db:"team" json:"team"`
	TeamLeader string    `db:"team_leader" json:"team_leader"`
	Supervisor string    `db:"supervisor" json:"supervisor"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeSummary is an employee row enriched with coaching totals.
type EmployeeSummary struct {
	Employee
	CourseCount  int   `db:"course_count" json:"course_count"`
	TotalSeconds int64 `db:"total_seconds" json:"total_duration_seconds"`
}

// TotalDuration returns the summed coaching time.
func (s EmployeeSummary) TotalDuration() time.Duration {
	return time.Duration(s.TotalSeconds) * time.Second
}

// EmployeeWorkload is a compact aggregate used by the coaching-hours chart.
type EmployeeWorkload struct {
	EmployeeID   string `db:"employee_id" json:"employee_id"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	TotalSeconds int64  `db:"total_seconds" json:"total_duration_seconds"`
}

// TotalHours converts the workload total into fractional hours.
func (w EmployeeWorkload) TotalHours() float64 {
	return float64(w.TotalSeconds) / 3600
}

// FullName joins the workload's name parts for chart labels.
func (w EmployeeWorkload) FullName() string {
	return w.FirstName + " " + w.LastName
}

// EmployeeFilter captures list filtering options.
type EmployeeFilter struct {
	Search   string
	Page     int
	PageSize int
}
