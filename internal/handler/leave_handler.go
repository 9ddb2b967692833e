package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/leave-api/internal/dto"
	"github.com/noah-isme/leave-api/internal/models"
	"github.com/noah-isme/leave-api/internal/service"
	"github.com/noah-isme/leave-api/pkg/response"
)

type leaveService interface {
	Submit(ctx context.Context, req dto.ApplyLeaveRequest) (*models.LeaveApplication, error)
	ListAll(ctx context.Context) ([]models.LeaveApplication, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveApplication, error)
	Get(ctx context.Context, id string) (*models.LeaveApplication, error)
	Review(ctx context.Context, id string, req dto.ReviewLeaveRequest, reviewer models.Identity) (*models.LeaveApplication, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, employeeID string) (*dto.LeaveStatistics, error)
}

type leaveExporter interface {
	Export(ctx context.Context, employeeID string, format dto.ExportFormat) (*dto.ExportFile, error)
}

// LeaveHandler exposes the leave application workflow.
type LeaveHandler struct {
	service  leaveService
	exporter leaveExporter
}

// NewLeaveHandler constructs the handler. exporter may be nil when exports are disabled.
func NewLeaveHandler(svc leaveService, exporter leaveExporter) *LeaveHandler {
	return &LeaveHandler{service: svc, exporter: exporter}
}

// Apply godoc
// @Summary Submit leave application
// @Tags Leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ApplyLeaveRequest true "Leave application"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /leave/apply [post]
func (h *LeaveHandler) Apply(c *gin.Context) {
	var req dto.ApplyLeaveRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, app, "Leave application submitted successfully")
}

// List godoc
// @Summary List leave applications
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /leave/applications [get]
func (h *LeaveHandler) List(c *gin.Context) {
	apps, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, apps, len(apps))
}

// ListByEmployee godoc
// @Summary List an employee's leave applications
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /leave/employee/{employeeId} [get]
func (h *LeaveHandler) ListByEmployee(c *gin.Context) {
	apps, err := h.service.ListByEmployee(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, apps, len(apps))
}

// Get godoc
// @Summary Get leave application
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leave/application/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	app, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, "")
}

// Review godoc
// @Summary Review leave application
// @Description Set the status of an application to Approved, Rejected or Pending
// @Tags Leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body dto.ReviewLeaveRequest true "Review"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leave/application/{id} [put]
func (h *LeaveHandler) Review(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.ReviewLeaveRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.service.Review(c.Request.Context(), c.Param("id"), req, identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, service.ReviewMessage(app.Status))
}

// Delete godoc
// @Summary Delete pending leave application
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leave/application/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Leave application deleted successfully")
}

// Statistics godoc
// @Summary Leave dashboard statistics
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Param employeeId query string false "Restrict to one employee"
// @Success 200 {object} response.Envelope
// @Router /leave/statistics [get]
func (h *LeaveHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), c.Query("employeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, "")
}

// Export godoc
// @Summary Export leave applications
// @Tags Leave
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param employeeId query string false "Restrict to one employee"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /leave/applications/export [get]
func (h *LeaveHandler) Export(c *gin.Context) {
	file, err := h.exporter.Export(c.Request.Context(), c.Query("employeeId"), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
