package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/leave-api/internal/dto"
	"github.com/noah-isme/leave-api/internal/models"
	appErrors "github.com/noah-isme/leave-api/pkg/errors"
)

const (
	leaveDateLayout       = "2006-01-02"
	leaveNotFoundMessage  = "Leave application not found"
	invalidStatusMessage  = "Invalid status value. Must be Approved, Rejected, or Pending"
	reviewedDeleteMessage = "Cannot delete applications that have been reviewed"
	dateOrderMessage      = "End date cannot be before start date"
)

type leaveRepository interface {
	Create(ctx context.Context, app *models.LeaveApplication) error
	GetByID(ctx context.Context, id string) (*models.LeaveApplication, error)
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveApplication, error)
	StatRows(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveStatRow, error)
	UpdateReview(ctx context.Context, app *models.LeaveApplication) error
	DeletePending(ctx context.Context, id string) error
}

type leaveMetrics interface {
	RecordLeaveSubmitted(leaveType models.LeaveType)
	RecordLeaveReviewed(status models.LeaveStatus)
}

// LeaveService implements the leave application workflow.
type LeaveService struct {
	repo      leaveRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   leaveMetrics
	now       func() time.Time
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveRepository, validate *validator.Validate, logger *zap.Logger, metrics leaveMetrics) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &LeaveService{repo: repo, validator: validate, logger: logger, metrics: metrics, now: time.Now}
}

// Submit validates a draft, derives its working days and stores it as Pending.
func (s *LeaveService) Submit(ctx context.Context, req dto.ApplyLeaveRequest) (*models.LeaveApplication, error) {
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.EmployeeName = strings.TrimSpace(req.EmployeeName)
	req.Department = strings.TrimSpace(req.Department)
	req.LeaveType = models.LeaveType(strings.TrimSpace(string(req.LeaveType)))
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	req.Reason = strings.TrimSpace(req.Reason)
	req.ContactDuringLeave = strings.TrimSpace(req.ContactDuringLeave)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Please provide all required fields")
	}

	start, err := parseLeaveDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "startDate must be a valid date")
	}
	end, err := parseLeaveDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "endDate must be a valid date")
	}
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, dateOrderMessage)
	}

	now := s.now().UTC()
	app := &models.LeaveApplication{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Department:   req.Department,
		LeaveType:    req.LeaveType,
		StartDate:    start,
		EndDate:      end,
		WorkingDays:  WorkingDays(start, end),
		Reason:       req.Reason,
		Status:       models.LeaveStatusPending,
		AppliedDate:  now,
		CreatedAt:    now,
	}
	if req.ContactDuringLeave != "" {
		contact := req.ContactDuringLeave
		app.ContactDuringLeave = &contact
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Internal(err, "Error submitting leave application")
	}
	if s.metrics != nil {
		s.metrics.RecordLeaveSubmitted(app.LeaveType)
	}
	s.logger.Info("leave application submitted",
		zap.String("id", app.ID),
		zap.String("employee_id", app.EmployeeID),
		zap.String("leave_type", string(app.LeaveType)),
		zap.Int("working_days", app.WorkingDays),
	)
	return app, nil
}

// ListAll returns every application, most recently applied first.
func (s *LeaveService) ListAll(ctx context.Context) ([]models.LeaveApplication, error) {
	apps, err := s.repo.List(ctx, models.LeaveFilter{})
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving leave applications")
	}
	return apps, nil
}

// ListByEmployee returns a single employee's applications, most recently applied first.
func (s *LeaveService) ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveApplication, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employeeId is required")
	}
	apps, err := s.repo.List(ctx, models.LeaveFilter{EmployeeID: employeeID})
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving employee leave applications")
	}
	return apps, nil
}

// Get fetches one application.
func (s *LeaveService) Get(ctx context.Context, id string) (*models.LeaveApplication, error) {
	if !isRecordID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, leaveNotFoundMessage)
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, leaveNotFoundMessage)
		}
		return nil, appErrors.Internal(err, "Error retrieving leave application")
	}
	return app, nil
}

// Review overwrites the review fields of an application. Any status may move to any status.
func (s *LeaveService) Review(ctx context.Context, id string, req dto.ReviewLeaveRequest, reviewer models.Identity) (*models.LeaveApplication, error) {
	status := models.LeaveStatus(strings.TrimSpace(string(req.Status)))
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, invalidStatusMessage)
	}

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewedBy := strings.TrimSpace(req.ReviewedBy)
	if reviewedBy == "" {
		reviewedBy = reviewer.Name
	}
	reviewedAt := s.now().UTC()
	previous := app.Status

	app.Status = status
	app.ReviewedBy = optionalString(reviewedBy)
	app.ReviewDate = &reviewedAt
	app.Comments = optionalString(strings.TrimSpace(req.Comments))

	if err := s.repo.UpdateReview(ctx, app); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, leaveNotFoundMessage)
		}
		return nil, appErrors.Internal(err, "Error updating leave application status")
	}
	if s.metrics != nil {
		s.metrics.RecordLeaveReviewed(status)
	}
	s.logger.Info("leave application reviewed",
		zap.String("id", app.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("reviewer_id", reviewer.UserID),
	)
	return app, nil
}

// ReviewMessage is the confirmation returned after a review.
func ReviewMessage(status models.LeaveStatus) string {
	return fmt.Sprintf("Leave application %s successfully", strings.ToLower(string(status)))
}

// Delete removes an application that is still Pending.
func (s *LeaveService) Delete(ctx context.Context, id string) error {
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if app.Status != models.LeaveStatusPending {
		return appErrors.Clone(appErrors.ErrValidation, reviewedDeleteMessage)
	}
	if err := s.repo.DeletePending(ctx, id); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return appErrors.Internal(err, "Error deleting leave application")
		}
		// reviewed or removed since the read above
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return appErrors.Clone(appErrors.ErrValidation, reviewedDeleteMessage)
	}
	s.logger.Info("leave application deleted", zap.String("id", id), zap.String("employee_id", app.EmployeeID))
	return nil
}

// Statistics summarises applications, optionally for a single employee.
func (s *LeaveService) Statistics(ctx context.Context, employeeID string) (*dto.LeaveStatistics, error) {
	rows, err := s.repo.StatRows(ctx, models.LeaveFilter{EmployeeID: strings.TrimSpace(employeeID)})
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving leave statistics")
	}
	return foldStatistics(rows, s.now()), nil
}

func foldStatistics(rows []models.LeaveStatRow, now time.Time) *dto.LeaveStatistics {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	stats := &dto.LeaveStatistics{Total: len(rows), LeaveTypeDistribution: []dto.LeaveTypeCount{}}
	byType := make(map[models.LeaveType]int)
	for _, row := range rows {
		switch row.Status {
		case models.LeaveStatusApproved:
			stats.Approved++
		case models.LeaveStatusRejected:
			stats.Rejected++
		case models.LeaveStatusPending:
			stats.Pending++
		}
		if !row.AppliedDate.Before(monthStart) && row.AppliedDate.Before(nextMonth) {
			stats.ThisMonthLeaves++
		}
		byType[row.LeaveType]++
	}

	for leaveType, count := range byType {
		stats.LeaveTypeDistribution = append(stats.LeaveTypeDistribution, dto.LeaveTypeCount{LeaveType: leaveType, Count: count})
	}
	sort.Slice(stats.LeaveTypeDistribution, func(i, j int) bool {
		return stats.LeaveTypeDistribution[i].LeaveType < stats.LeaveTypeDistribution[j].LeaveType
	})
	return stats
}

// WorkingDays counts the weekdays in [start, end] inclusive, judged in each date's own location.
func WorkingDays(start, end time.Time) int {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, start.Location())
	days := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if weekday := day.Weekday(); weekday != time.Saturday && weekday != time.Sunday {
			days++
		}
	}
	return days
}

func parseLeaveDate(raw string) (time.Time, error) {
	if t, err := time.Parse(leaveDateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse leave date %q: %w", raw, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
