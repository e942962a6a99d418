package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dealerdesk/crm-backend/internal/auth"
	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/repository"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.Manager
}

func NewAuthService(users repository.UserRepository, tokens *auth.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies credentials and returns a signed token plus the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return "", nil, errs.ErrUnauthorized
	}
	if err != nil {
		return "", nil, fmt.Errorf("login lookup: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errs.ErrUnauthorized
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

type RegisterInput struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	Role         models.UserRole `json:"role"`
	DealershipID string          `json:"dealershipId"`
	DepartmentID string          `json:"departmentId"`
}

// Register creates a consultant or manager account with the next numeric
// user id.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", errs.ErrBadRequest)
	}
	if in.Role == "" {
		in.Role = models.RoleConsultant
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.users.NextUserID(ctx)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		UserID:       userID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		DealershipID: in.DealershipID,
		DepartmentID: in.DepartmentID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
