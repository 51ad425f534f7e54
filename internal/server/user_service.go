package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/devapply/devapply/internal/config"
	"github.com/devapply/devapply/internal/db"
	"github.com/devapply/devapply/internal/types"
	"github.com/google/uuid"
)

// UserService registers accounts and checks credentials.
type UserService struct {
	users     UserStore
	passwords *config.PasswordConfig
}

// NewUserService creates a UserService.
func NewUserService(users UserStore, passwords *config.PasswordConfig) *UserService {
	return &UserService{users: users, passwords: passwords}
}

// publicUser strips the password hash from a stored user.
func publicUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		PasswordSet: u.PasswordSet,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. The user row and its password hash are
// written separately; a failed hash write removes the row again.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := canonicalEmail(req.Email)
	taken, err := s.users.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.users.CreateUser(ctx, strings.TrimSpace(req.Name), email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if delErr := s.users.DeleteUser(ctx, userID); delErr != nil {
			return nil, fmt.Errorf("failed to set password: %w (cleanup: %v)", err, delErr)
		}
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load new user: %w", err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return publicUser(u), nil
}

// Login returns the user whose email and password match. Unknown emails and
// wrong passwords produce the same error.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	u, err := s.users.GetUserByEmail(ctx, canonicalEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil || !u.PasswordSet || !s.passwords.VerifyPassword(req.Password, u.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return publicUser(u), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return &ErrUserNotFound{UserID: userID}
	}
	if !u.PasswordSet || !s.passwords.VerifyPassword(currentPassword, u.PasswordHash) {
		return &ErrPasswordMismatch{}
	}
	if currentPassword == newPassword {
		return &ErrValidation{Field: "new_password", Message: "must differ from the current password"}
	}

	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
