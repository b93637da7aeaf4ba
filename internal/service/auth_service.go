// File: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/repository"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/infrastructure/security"
)

// AuthService handles dashboard login and admin user management.
type AuthService struct {
	cfg      *config.Config
	logger   *zap.Logger
	userRepo repository.UserRepository
	jwt      *security.JWTService
}

func NewAuthService(cfg *config.Config, logger *zap.Logger, userRepo repository.UserRepository, jwt *security.JWTService) *AuthService {
	return &AuthService{
		cfg:      cfg,
		logger:   logger.Named("auth_service"),
		userRepo: userRepo,
		jwt:      jwt,
	}
}

// Login verifies credentials and mints a bearer token. The configured demo
// account bypasses the database entirely and is never an admin.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if s.cfg.App.DemoEmail != "" && email == s.cfg.App.DemoEmail && password == s.cfg.App.DemoPassword {
		demo := &models.User{
			ID:          0,
			Email:       s.cfg.App.DemoEmail,
			FullName:    "Demo Account",
			CompanyName: "ABK Review",
			IsAdmin:     false,
		}
		token, err := s.jwt.Issue(demo)
		if err != nil {
			return "", nil, fmt.Errorf("failed to issue demo token: %w", err)
		}
		s.logger.Info("demo account login", zap.String("email", email))
		return token, demo, nil
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Same answer for unknown email and wrong password.
			return "", nil, domainErrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return "", nil, domainErrors.ErrInvalidCredentials
	}

	token, err := s.jwt.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	s.logger.Info("user login", zap.Int64("user_id", user.ID))
	return token, user, nil
}

// CreateUser provisions a dashboard user with a bcrypt-hashed password.
func (s *AuthService) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		CompanyName:  input.CompanyName,
		IsAdmin:      input.IsAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.Bool("is_admin", user.IsAdmin))
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}
