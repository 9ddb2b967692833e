package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/leave-api/internal/dto"
	"github.com/noah-isme/leave-api/internal/models"
	appErrors "github.com/noah-isme/leave-api/pkg/errors"
	"github.com/noah-isme/leave-api/pkg/export"
)

var leaveExportHeaders = []string{
	"ID", "Employee ID", "Employee Name", "Department", "Leave Type",
	"Start Date", "End Date", "Working Days", "Status", "Applied Date",
}

type leaveLister interface {
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveApplication, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportService renders leave applications as downloadable files.
type ExportService struct {
	repo      leaveLister
	renderers map[dto.ExportFormat]datasetRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(repo leaveLister, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		repo: repo,
		renderers: map[dto.ExportFormat]datasetRenderer{
			dto.ExportFormatCSV: csv,
			dto.ExportFormatPDF: pdf,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export renders the applications, optionally for one employee, in the requested format.
func (s *ExportService) Export(ctx context.Context, employeeID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	format = dto.ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = dto.ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of: csv, pdf")
	}

	employeeID = strings.TrimSpace(employeeID)
	apps, err := s.repo.List(ctx, models.LeaveFilter{EmployeeID: employeeID})
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving leave applications")
	}

	content, err := renderer.Render(leaveDataset(apps, employeeID))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("leave export generated", zap.String("format", string(format)), zap.Int("rows", len(apps)), zap.String("employee_id", employeeID))
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("leave-applications-%s.%s", s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func leaveDataset(apps []models.LeaveApplication, employeeID string) export.Dataset {
	title := "Leave Applications"
	if employeeID != "" {
		title += " - " + employeeID
	}
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			app.ID,
			app.EmployeeID,
			app.EmployeeName,
			app.Department,
			string(app.LeaveType),
			app.StartDate.Format(leaveDateLayout),
			app.EndDate.Format(leaveDateLayout),
			strconv.Itoa(app.WorkingDays),
			string(app.Status),
			app.AppliedDate.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Title: title, Headers: leaveExportHeaders, Rows: rows}
}
