package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jkruzel/trainings-api/internal/models"
)

const employeeColumns = `e.id, h.first_name, h.last_name, h.gender, h.email, h.phone_number,
	e.position, e.company, e.team, e.team_leader, e.supervisor, h.created_at, h.updated_at`

// EmployeeRepository manages persistence for employees and their shared
// human base rows.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employee summaries (including coaching totals) along with the
// total count. Totals are computed fresh on every call.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeSummary, int, error) {
	base := `FROM employees e JOIN humans h ON h.id = e.id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(h.first_name) LIKE $%d OR LOWER(h.last_name) LIKE $%d OR LOWER(h.email) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s,
		COUNT(c.id) AS course_count,
		COALESCE(SUM(EXTRACT(EPOCH FROM (c.end_time - c.start_time))), 0)::bigint AS total_seconds
		%s
		LEFT JOIN training_courses c ON c.coach_id = e.id
		GROUP BY e.id, h.id
		ORDER BY h.last_name, h.first_name LIMIT %d OFFSET %d`, employeeColumns, base, size, offset)

	var employees []models.EmployeeSummary
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	return employees, total, nil
}

// FindByID fetches an employee by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees e JOIN humans h ON h.id = e.id WHERE e.id = $1`, employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create inserts the human base row and the employee extension row in one
// transaction.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create employee: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const humanQuery = `INSERT INTO humans (id, first_name, last_name, gender, email, phone_number, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :gender, :email, :phone_number, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, humanQuery, employee); err != nil {
		return fmt.Errorf("create employee human: %w", err)
	}

	const employeeQuery = `INSERT INTO employees (id, position, company, team, team_leader, supervisor)
		VALUES (:id, :position, :company, :team, :team_leader, :supervisor)`
	if _, err := tx.NamedExecContext(ctx, employeeQuery, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}

	return tx.Commit()
}

// Update modifies both halves of an employee record.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update employee: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const humanQuery = `UPDATE humans SET phone_number = :phone_number, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, humanQuery, employee); err != nil {
		return fmt.Errorf("update employee human: %w", err)
	}

	const employeeQuery = `UPDATE employees SET position = :position, company = :company, team = :team,
		team_leader = :team_leader, supervisor = :supervisor WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, employeeQuery, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}

	return tx.Commit()
}

// Delete removes the employee and its human base row.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete employee: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM humans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete employee human: %w", err)
	}

	return tx.Commit()
}

// CountCoachedCourses returns how many courses reference the employee as
// coach.
func (r *EmployeeRepository) CountCoachedCourses(ctx context.Context, coachID string) (int, error) {
	const query = `SELECT COUNT(*) FROM training_courses WHERE coach_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, coachID); err != nil {
		return 0, fmt.Errorf("count coached courses: %w", err)
	}
	return count, nil
}

// WorkloadTotals returns per-employee coaching totals for every employee,
// used by the coaching-hours chart.
func (r *EmployeeRepository) WorkloadTotals(ctx context.Context) ([]models.EmployeeWorkload, error) {
	const query = `SELECT e.id AS employee_id, h.first_name, h.last_name,
		COALESCE(SUM(EXTRACT(EPOCH FROM (c.end_time - c.start_time))), 0)::bigint AS total_seconds
		FROM employees e
		JOIN humans h ON h.id = e.id
		LEFT JOIN training_courses c ON c.coach_id = e.id
		GROUP BY e.id, h.first_name, h.last_name
		ORDER BY h.last_name, h.first_name`
	var workloads []models.EmployeeWorkload
	if err := r.db.SelectContext(ctx, &workloads, query); err != nil {
		return nil, fmt.Errorf("employee workload totals: %w", err)
	}
	return workloads, nil
}
