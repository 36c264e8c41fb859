package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// AdminUserStore persists operators.
type AdminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	TouchLastLogin(ctx context.Context, id int64) error
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string            `json:"token"`
	User  *models.AdminUser `json:"user"`
}

type AdminAuthService struct {
	adminRepo AdminUserStore
	jwt       *utils.JWTManager
}

func NewAdminAuthService(adminRepo AdminUserStore, jwt *utils.JWTManager) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo, jwt: jwt}
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log.Debug().Str("email", email).Msg("Login attempt")

	user, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to get user by email")
		return nil, err
	}
	if user == nil {
		log.Warn().Str("email", email).Msg("Unknown operator")
		return nil, utils.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return nil, utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.adminRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to record last login")
	}

	log.Info().Str("email", email).Msg("Login successful")
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password, name string) (*models.AdminUser, error) {
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}
	if err := s.adminRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap operator unless one with that email exists.
func (s *AdminAuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	existing, err := s.adminRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	user, err := s.CreateAdmin(ctx, email, password, name)
	if err != nil {
		return err
	}
	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("Bootstrap operator created")
	return nil
}
