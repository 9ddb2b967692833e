package models

import "time"

// LeaveType enumerates the kinds of leave an employee can request.
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "Annual"
	LeaveTypeSick      LeaveType = "Sick"
	LeaveTypeMaternity LeaveType = "Maternity"
	LeaveTypePaternity LeaveType = "Paternity"
	LeaveTypeUnpaid    LeaveType = "Unpaid"
	LeaveTypeOther     LeaveType = "Other"
)

// LeaveStatus captures the review state of an application.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "Pending"
	LeaveStatusApproved LeaveStatus = "Approved"
	LeaveStatusRejected LeaveStatus = "Rejected"
)

// Valid reports whether s is one of the three review states.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	}
	return false
}

// LeaveApplication is a persisted leave request.
type LeaveApplication struct {
	ID                 string      `db:"id" json:"id"`
	EmployeeID         string      `db:"employee_id" json:"employeeId"`
	EmployeeName       string      `db:"employee_name" json:"employeeName"`
	Department         string      `db:"department" json:"department"`
	LeaveType          LeaveType   `db:"leave_type" json:"leaveType"`
	StartDate          time.Time   `db:"start_date" json:"startDate"`
	EndDate            time.Time   `db:"end_date" json:"endDate"`
	WorkingDays        int         `db:"working_days" json:"workingDays"`
	Reason             string      `db:"reason" json:"reason"`
	ContactDuringLeave *string     `db:"contact_during_leave" json:"contactDuringLeave,omitempty"`
	Status             LeaveStatus `db:"status" json:"status"`
	AppliedDate        time.Time   `db:"applied_date" json:"appliedDate"`
	ReviewedBy         *string     `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewDate         *time.Time  `db:"review_date" json:"reviewDate,omitempty"`
	Comments           *string     `db:"comments" json:"comments,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updatedAt"`
}

// LeaveFilter narrows list and statistics queries. An empty EmployeeID means all employees.
type LeaveFilter struct {
	EmployeeID string
}

// LeaveStatRow is the projection folded into dashboard statistics.
type LeaveStatRow struct {
	LeaveType   LeaveType   `db:"leave_type"`
	Status      LeaveStatus `db:"status"`
	AppliedDate time.Time   `db:"applied_date"`
}
