package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/leave-api/internal/models"
)

const leaveColumns = `id, employee_id, employee_name, department, leave_type, start_date, end_date, working_days, reason,
       contact_during_leave, status, applied_date, reviewed_by, review_date, comments, created_at, updated_at`

// LeaveRepository persists leave applications.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// Create inserts a new application, assigning id, status and timestamps when unset.
func (r *LeaveRepository) Create(ctx context.Context, app *models.LeaveApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.LeaveStatusPending
	}
	now := time.Now().UTC()
	if app.AppliedDate.IsZero() {
		app.AppliedDate = now
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	const query = `INSERT INTO leave_applications
	(id, employee_id, employee_name, department, leave_type, start_date, end_date, working_days, reason,
	 contact_during_leave, status, applied_date, reviewed_by, review_date, comments, created_at, updated_at)
	VALUES (:id, :employee_id, :employee_name, :department, :leave_type, :start_date, :end_date, :working_days, :reason,
	 :contact_during_leave, :status, :applied_date, :reviewed_by, :review_date, :comments, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create leave application: %w", err)
	}
	return nil
}

// GetByID fetches an application. sql.ErrNoRows is returned unwrapped when absent.
func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*models.LeaveApplication, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_applications WHERE id = $1`
	var app models.LeaveApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get leave application: %w", err)
	}
	return &app, nil
}

// List returns applications matching the filter, most recently applied first.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveApplication, error) {
	where, args := leaveWhere(filter)
	query := `SELECT ` + leaveColumns + ` FROM leave_applications` + where + ` ORDER BY applied_date DESC`

	apps := make([]models.LeaveApplication, 0)
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("list leave applications: %w", err)
	}
	return apps, nil
}

// StatRows returns the projection used for dashboard statistics.
func (r *LeaveRepository) StatRows(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveStatRow, error) {
	where, args := leaveWhere(filter)
	query := `SELECT leave_type, status, applied_date FROM leave_applications` + where

	rows := make([]models.LeaveStatRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("leave statistics rows: %w", err)
	}
	return rows, nil
}

// UpdateReview persists the review outcome. sql.ErrNoRows signals the row vanished.
func (r *LeaveRepository) UpdateReview(ctx context.Context, app *models.LeaveApplication) error {
	app.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leave_applications
	SET status = :status, reviewed_by = :reviewed_by, review_date = :review_date, comments = :comments, updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, app)
	if err != nil {
		return fmt.Errorf("update leave review: %w", err)
	}
	return expectAffected(result)
}

// DeletePending removes the application only while it is still Pending.
// sql.ErrNoRows signals the row is gone or has been reviewed.
func (r *LeaveRepository) DeletePending(ctx context.Context, id string) error {
	const query = `DELETE FROM leave_applications WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, string(models.LeaveStatusPending))
	if err != nil {
		return fmt.Errorf("delete leave application: %w", err)
	}
	return expectAffected(result)
}

func leaveWhere(filter models.LeaveFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if employeeID := strings.TrimSpace(filter.EmployeeID); employeeID != "" {
		args = append(args, employeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
