package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/leave-api/internal/dto"
	"github.com/noah-isme/leave-api/internal/models"
	"github.com/noah-isme/leave-api/pkg/config"
	appErrors "github.com/noah-isme/leave-api/pkg/errors"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.Identity, error) {
	switch token {
	case "employee-token":
		return &models.Identity{UserID: "u-1", EmployeeID: "EMP001", Name: "Eve", Role: models.RoleEmployee}, nil
	case "manager-token":
		return &models.Identity{UserID: "u-2", EmployeeID: "EMP002", Name: "Max", Role: models.RoleManager}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
}

type fakeAuthSrv struct {
	lastRegister models.RegisterRequest
	lastLogin    models.LoginRequest
	err          error
}

func (f *fakeAuthSrv) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.lastRegister = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AuthResponse{Token: "signed", User: models.UserInfo{ID: "u-9", EmployeeID: req.EmployeeID, Name: req.Name, Role: models.RoleEmployee}}, nil
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	f.lastLogin = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AuthResponse{Token: "signed", User: models.UserInfo{ID: "u-1", EmployeeID: req.EmployeeID}}, nil
}

func (f *fakeAuthSrv) Me(_ context.Context, identity models.Identity) (*models.UserInfo, error) {
	return &models.UserInfo{ID: identity.UserID, EmployeeID: identity.EmployeeID, Name: identity.Name, Role: identity.Role}, nil
}

type fakeLeaveSrv struct {
	apps         []models.LeaveApplication
	err          error
	lastReviewer models.Identity
	lastReview   dto.ReviewLeaveRequest
	lastSubmit   dto.ApplyLeaveRequest
	statsFor     string
	deleted      string
}

func (f *fakeLeaveSrv) Submit(_ context.Context, req dto.ApplyLeaveRequest) (*models.LeaveApplication, error) {
	f.lastSubmit = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.LeaveApplication{ID: "a-1", EmployeeID: req.EmployeeID, Status: models.LeaveStatusPending, WorkingDays: 5}, nil
}

func (f *fakeLeaveSrv) ListAll(context.Context) ([]models.LeaveApplication, error) {
	return f.apps, f.err
}

func (f *fakeLeaveSrv) ListByEmployee(_ context.Context, employeeID string) ([]models.LeaveApplication, error) {
	out := make([]models.LeaveApplication, 0)
	for _, app := range f.apps {
		if app.EmployeeID == employeeID {
			out = append(out, app)
		}
	}
	return out, f.err
}

func (f *fakeLeaveSrv) Get(_ context.Context, id string) (*models.LeaveApplication, error) {
	for _, app := range f.apps {
		if app.ID == id {
			return &app, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Leave application not found")
}

func (f *fakeLeaveSrv) Review(_ context.Context, id string, req dto.ReviewLeaveRequest, reviewer models.Identity) (*models.LeaveApplication, error) {
	f.lastReview = req
	f.lastReviewer = reviewer
	if f.err != nil {
		return nil, f.err
	}
	return &models.LeaveApplication{ID: id, Status: req.Status}, nil
}

func (f *fakeLeaveSrv) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeLeaveSrv) Statistics(_ context.Context, employeeID string) (*dto.LeaveStatistics, error) {
	f.statsFor = employeeID
	return &dto.LeaveStatistics{Total: 3, Approved: 1, Rejected: 1, Pending: 1, LeaveTypeDistribution: []dto.LeaveTypeCount{{LeaveType: models.LeaveTypeAnnual, Count: 3}}}, f.err
}

type fakeExporter struct {
	lastEmployee string
	lastFormat   dto.ExportFormat
}

func (f *fakeExporter) Export(_ context.Context, employeeID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	f.lastEmployee, f.lastFormat = employeeID, format
	return &dto.ExportFile{Filename: "leave-applications-20240320.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("ID\n")}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fixture struct {
	router   *gin.Engine
	auth     *fakeAuthSrv
	leave    *fakeLeaveSrv
	exporter *fakeExporter
}

func newFixture(mutate func(*config.Config)) *fixture {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:       "test",
		APIPrefix: "/api",
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		Leave:     config.LeaveConfig{ExportsEnabled: true},
	}
	if mutate != nil {
		mutate(cfg)
	}
	f := &fixture{auth: &fakeAuthSrv{}, leave: &fakeLeaveSrv{}, exporter: &fakeExporter{}}
	f.router = NewRouter(RouterDeps{
		Config:   cfg,
		Verifier: stubVerifier{},
		Auth:     NewAuthHandler(f.auth),
		Leave:    NewLeaveHandler(f.leave, f.exporter),
		Metrics:  NewMetricsHandler(nil, fakePinger{}, nil),
	})
	return f
}

func (f *fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Token   string          `json:"token"`
	User    map[string]any  `json:"user"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestWelcomeAndProbes(t *testing.T) {
	f := newFixture(nil)

	for _, path := range []string{"/", "/health", "/ready"} {
		rec := f.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, decode(t, rec).Success, path)
	}
	assert.Equal(t, "Welcome to Leave Application API", decode(t, f.do(http.MethodGet, "/", "", nil)).Message)

	rec := f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	rec := newFixture(nil).do(http.MethodGet, "/api/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

type fakeSchema struct {
	err   error
	calls int
}

func (s *fakeSchema) Ensure(context.Context) error {
	s.calls++
	return s.err
}

func ready(h *MetricsHandler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	h.Ready(c)
	return rec
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	schema := &fakeSchema{}
	rec := ready(NewMetricsHandler(nil, fakePinger{err: errors.New("refused")}, nil).WithSchema(schema))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Code)
	assert.Equal(t, "database unreachable", env.Message)
	assert.Zero(t, schema.calls)
}

func TestReadyAppliesSchemaOnceDatabaseAnswers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	schema := &fakeSchema{err: errors.New("relation lock")}
	h := NewMetricsHandler(nil, fakePinger{}, nil).WithSchema(schema)

	rec := ready(h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "database schema not ready", decode(t, rec).Message)

	schema.err = nil
	rec = ready(h)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)
	assert.Equal(t, 2, schema.calls)
}

func TestRegister(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"employeeId": "EMP009", "name": "New Hire", "email": "new@example.com", "password": "secret1", "department": "Ops",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "signed", env.Token)
	assert.Equal(t, "EMP009", env.User["employeeId"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRegisterConflict(t *testing.T) {
	f := newFixture(nil)
	f.auth.err = appErrors.Clone(appErrors.ErrConflict, "user with this email or employee ID already exists")

	rec := f.do(http.MethodPost, "/api/user/register", "", map[string]string{"employeeId": "EMP001"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "CONFLICT", env.Code)
	assert.Equal(t, "user with this email or employee ID already exists", env.Message)
}

func TestRejectsUnknownJSONFields(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodPost, "/api/user/login", "", `{"employeeId":"EMP001","password":"x","isAdmin":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Code)
	assert.Empty(t, f.auth.lastLogin.EmployeeID)
}

func TestRejectsMalformedJSON(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodPost, "/api/leave/apply", "employee-token", `{"employeeId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "invalid request body", env.Message)
	assert.Empty(t, env.Error)
}

func TestLoginFailureShape(t *testing.T) {
	f := newFixture(nil)
	f.auth.err = appErrors.Clone(appErrors.ErrInvalidCredentials, "")

	rec := f.do(http.MethodPost, "/api/user/login", "", map[string]string{"employeeId": "EMP001", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "invalid credentials", env.Message)
	assert.Empty(t, env.Token)
}

func TestMe(t *testing.T) {
	f := newFixture(nil)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/user/me", "", nil).Code)

	rec := f.do(http.MethodGet, "/api/user/me", "employee-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EMP001", decode(t, rec).User["employeeId"])
}

func TestLeaveRoutesRequireToken(t *testing.T) {
	f := newFixture(nil)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/leave/apply"},
		{http.MethodGet, "/api/leave/applications"},
		{http.MethodGet, "/api/leave/applications/export"},
		{http.MethodGet, "/api/leave/employee/EMP001"},
		{http.MethodGet, "/api/leave/application/a-1"},
		{http.MethodPut, "/api/leave/application/a-1"},
		{http.MethodDelete, "/api/leave/application/a-1"},
		{http.MethodGet, "/api/leave/statistics"},
	} {
		rec := f.do(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		rec = f.do(route.method, route.path, "forged", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestApply(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodPost, "/api/leave/apply", "employee-token", dto.ApplyLeaveRequest{
		EmployeeID: "EMP001", EmployeeName: "Eve", Department: "Ops", LeaveType: models.LeaveTypeAnnual,
		StartDate: "2024-03-04", EndDate: "2024-03-08", Reason: "Trip",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Leave application submitted successfully", env.Message)
	var app models.LeaveApplication
	require.NoError(t, json.Unmarshal(env.Data, &app))
	assert.Equal(t, 5, app.WorkingDays)
	assert.Equal(t, "2024-03-04", f.leave.lastSubmit.StartDate)
}

func TestApplyServerError(t *testing.T) {
	f := newFixture(nil)
	f.leave.err = appErrors.Internal(errors.New("connection refused"), "Error submitting leave application")

	rec := f.do(http.MethodPost, "/api/leave/apply", "employee-token", dto.ApplyLeaveRequest{EmployeeID: "EMP001"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Error submitting leave application", env.Message)
	assert.Equal(t, "connection refused", env.Error)
}

func TestListAndCount(t *testing.T) {
	f := newFixture(nil)
	f.leave.apps = []models.LeaveApplication{{ID: "a-2", EmployeeID: "EMP001"}, {ID: "a-1", EmployeeID: "EMP002"}}

	env := decode(t, f.do(http.MethodGet, "/api/leave/applications", "employee-token", nil))
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	env = decode(t, f.do(http.MethodGet, "/api/leave/employee/EMP404", "employee-token", nil))
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestGetNotFound(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodGet, "/api/leave/application/zzz", "employee-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Leave application not found", decode(t, rec).Message)
}

func TestReviewPassesIdentity(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodPut, "/api/leave/application/a-1", "manager-token", map[string]string{"status": "Rejected", "comments": "Busy"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Leave application rejected successfully", decode(t, rec).Message)
	assert.Equal(t, "Max", f.leave.lastReviewer.Name)
	assert.Equal(t, "Busy", f.leave.lastReview.Comments)
}

func TestReviewRoleGate(t *testing.T) {
	f := newFixture(func(cfg *config.Config) { cfg.Leave.ReviewRoleGate = true })

	rec := f.do(http.MethodPut, "/api/leave/application/a-1", "manager-token", map[string]string{"status": "Approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "manager access required", decode(t, rec).Message)

	rec = f.do(http.MethodDelete, "/api/leave/application/a-1", "manager-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPut, "/api/leave/application/a-1", "employee-token", map[string]string{"status": "Approved"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodDelete, "/api/leave/application/a-1", "employee-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Leave application deleted successfully", env.Message)
	assert.Empty(t, env.Data)
	assert.Equal(t, "a-1", f.leave.deleted)

	f.leave.err = appErrors.Clone(appErrors.ErrValidation, "Cannot delete applications that have been reviewed")
	rec = f.do(http.MethodDelete, "/api/leave/application/a-1", "employee-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatistics(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodGet, "/api/leave/statistics?employeeId=EMP001", "employee-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EMP001", f.leave.statsFor)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stats))
	assert.EqualValues(t, 3, stats["total"])
	dist := stats["leaveTypeDistribution"].([]any)
	assert.Equal(t, "Annual", dist[0].(map[string]any)["_id"])
}

func TestExport(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodGet, "/api/leave/applications/export?format=csv&employeeId=EMP001", "employee-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="leave-applications-20240320.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "EMP001", f.exporter.lastEmployee)
	assert.Equal(t, dto.ExportFormatCSV, f.exporter.lastFormat)
}

func TestExportDisabled(t *testing.T) {
	f := newFixture(func(cfg *config.Config) { cfg.Leave.ExportsEnabled = false })
	rec := f.do(http.MethodGet, "/api/leave/applications/export", "employee-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocsHiddenInProduction(t *testing.T) {
	assert.NotEqual(t, http.StatusNotFound, newFixture(nil).do(http.MethodGet, "/docs/index.html", "", nil).Code)

	prod := newFixture(func(cfg *config.Config) { cfg.Env = config.EnvProduction })
	assert.Equal(t, http.StatusNotFound, prod.do(http.MethodGet, "/docs/index.html", "", nil).Code)
}
