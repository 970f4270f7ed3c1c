package service

import (
	"errors"
	"fmt"

	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/repository"
	"go-ricemill-api/pkg/jwt"
	"go-ricemill-api/pkg/validator"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("email already registered")
)

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	Register(user *model.User, password string) error
	ResetPassword(email, oldPassword, newPassword string) error
	GetUsers() ([]model.UserResponse, error)
}

type authService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	logger    *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, auditRepo repository.AuditRepository, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	// Best-effort login audit
	go func() {
		entry := &model.AuditLog{
			UserID:       user.ID,
			UserName:     user.Name,
			Action:       model.ActionLogin,
			ResourceType: model.ResourceAuth,
		}
		if err := s.auditRepo.Create(entry); err != nil {
			s.logger.Error("audit log write failed", zap.String("action", model.ActionLogin), zap.Error(err))
		}
	}()

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) Register(user *model.User, password string) error {
	if errs := validator.ValidateStruct(user); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", errs[0].Message)
	}

	if existing, _ := s.userRepo.FindByEmail(user.Email); existing != nil {
		return ErrEmailTaken
	}

	if user.Role == "" {
		user.Role = model.RoleStaff
	}
	user.IsActive = true

	if err := user.SetPassword(password); err != nil {
		return err
	}

	return s.userRepo.Create(user)
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) GetUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}
