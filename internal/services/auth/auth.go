// Package services contains the business logic for registration, login and
// token validation.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/lib/jwt"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/password"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// ErrInvalidCredentials hides whether the phone or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository describes the user storage contract the auth flow needs.
type UserRepository interface {
	// RegisterUser stores a new user and returns its uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByPhone returns a user by login phone within an org.
	GetUserByPhone(ctx context.Context, orgID, phone string) (*models.User, error)

	// GetUser returns a user by uid.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// TouchLastSeen records a successful login.
	TouchLastSeen(ctx context.Context, userUID string) error
}

// AuthService handles registration, login and JWT validation.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register creates a user with a hashed password and the default "user"
// role, and returns the new uid.
func (s *AuthService) Register(ctx context.Context, orgID, phone, rawPassword, firstName, lastName, email string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		OrgID:        orgID,
		Phone:        phone,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashed,
		Role:         "user",
	}
	return s.users.RegisterUser(ctx, user)
}

// Login verifies the password and returns a signed token plus the profile.
func (s *AuthService) Login(ctx context.Context, orgID, phone, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByPhone(ctx, orgID, phone)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Phone, user.Role, user.OrgID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.users.TouchLastSeen(ctx, user.UID); err != nil {
		return "", nil, fmt.Errorf("touch last seen: %w", err)
	}
	return token, user, nil
}

// Profile returns the current profile for a validated token subject.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}
