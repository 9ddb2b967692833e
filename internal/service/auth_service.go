package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/leave-api/internal/models"
	"github.com/noah-isme/leave-api/internal/repository"
	appErrors "github.com/noah-isme/leave-api/pkg/errors"
)

const duplicateUserMessage = "user with this email or employee ID already exists"

type authUserRepository interface {
	FindByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmailOrEmployeeID(ctx context.Context, email, employeeID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type credentialProvider interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(hash, plain string) bool
	BurnPasswordCheck(plain string)
	IssueToken(user *models.User) (string, error)
}

type authMetrics interface {
	RecordLogin(success bool)
}

// AuthService provides registration, login and identity lookups.
type AuthService struct {
	repo        authUserRepository
	credentials credentialProvider
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     authMetrics
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, credentials credentialProvider, validate *validator.Validate, logger *zap.Logger, metrics authMetrics) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &AuthService{repo: repo, credentials: credentials, validator: validate, logger: logger, metrics: metrics}
}

// Register creates a directory user and returns a session for it.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Department = strings.TrimSpace(req.Department)
	req.Role = models.UserRole(strings.TrimSpace(string(req.Role)))

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid registration payload")
	}
	if req.Role == "" {
		req.Role = models.RoleEmployee
	}

	existing, err := s.repo.FindByEmailOrEmployeeID(ctx, req.Email, req.EmployeeID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check existing users")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, duplicateUserMessage)
	}

	hash, err := s.credentials.HashPassword(req.Password)
	if errors.Is(err, appErrors.ErrValidation) {
		return nil, appErrors.FromError(err)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		EmployeeID:   req.EmployeeID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Department:   req.Department,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, duplicateUserMessage)
		}
		return nil, appErrors.Internal(err, "failed to create user")
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("employee_id", user.EmployeeID), zap.String("role", string(user.Role)))
	return s.session(user)
}

// Login authenticates by employee id and password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid login payload")
	}

	user, err := s.repo.FindByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.credentials.BurnPasswordCheck(req.Password)
			s.recordLogin(false)
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}

	if !s.credentials.VerifyPassword(user.PasswordHash, req.Password) {
		s.recordLogin(false)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	s.recordLogin(true)
	return s.session(user)
}

// Me returns the directory record of the authenticated caller.
func (s *AuthService) Me(ctx context.Context, identity models.Identity) (*models.UserInfo, error) {
	if !isRecordID(identity.UserID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	user, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}
	info := user.Info()
	return &info, nil
}

func (s *AuthService) session(user *models.User) (*models.AuthResponse, error) {
	token, err := s.credentials.IssueToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.AuthResponse{Token: token, User: user.Info()}, nil
}

func (s *AuthService) recordLogin(success bool) {
	if s.metrics != nil {
		s.metrics.RecordLogin(success)
	}
}
