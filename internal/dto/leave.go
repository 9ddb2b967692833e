package dto

import "github.com/noah-isme/leave-api/internal/models"

// ApplyLeaveRequest is the body of POST /leave/apply. Dates are YYYY-MM-DD or RFC 3339.
type ApplyLeaveRequest struct {
	EmployeeID         string           `json:"employeeId" validate:"required"`
	EmployeeName       string           `json:"employeeName" validate:"required"`
	Department         string           `json:"department" validate:"required"`
	LeaveType          models.LeaveType `json:"leaveType" validate:"required,oneof=Annual Sick Maternity Paternity Unpaid Other"`
	StartDate          string           `json:"startDate" validate:"required"`
	EndDate            string           `json:"endDate" validate:"required"`
	Reason             string           `json:"reason" validate:"required"`
	ContactDuringLeave string           `json:"contactDuringLeave"`
}

// ReviewLeaveRequest is the body of PUT /leave/application/:id.
type ReviewLeaveRequest struct {
	Status     models.LeaveStatus `json:"status"`
	ReviewedBy string             `json:"reviewedBy"`
	Comments   string             `json:"comments"`
}

// LeaveTypeCount is one bucket of the leave type distribution.
type LeaveTypeCount struct {
	LeaveType models.LeaveType `json:"_id"`
	Count     int              `json:"count"`
}

// LeaveStatistics is the dashboard summary.
type LeaveStatistics struct {
	Total                 int              `json:"total"`
	Approved              int              `json:"approved"`
	Rejected              int              `json:"rejected"`
	Pending               int              `json:"pending"`
	ThisMonthLeaves       int              `json:"thisMonthLeaves"`
	LeaveTypeDistribution []LeaveTypeCount `json:"leaveTypeDistribution"`
}

// ExportFormat selects the rendering of a leave export.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
