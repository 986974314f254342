package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/martijn/miniblog/internal/core/domain"
	"github.com/martijn/miniblog/internal/core/repository"
)

const (
	AdminLogin = "admin"
	AdminName  = "Administrator"
	AdminEmail = "admin@example.com"
)

// UserService covers account removal, password resets and the bootstrap
// admin.
type UserService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	authService *AuthService
}

func NewUserService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	authService *AuthService,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		authService: authService,
	}
}

// DeleteAccount removes the caller's account together with all of the
// caller's posts and sessions, as one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, caller *domain.User) error {
	if caller == nil {
		return domain.ErrAuthRequired
	}

	if err := s.userRepo.DeleteCascade(ctx, caller.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// AdminDeleteUser removes another user's account and posts. Admins cannot be
// deleted through this path, not even by other admins.
func (s *UserService) AdminDeleteUser(ctx context.Context, caller *domain.User, userID int64) error {
	if caller == nil || !caller.IsAdmin {
		return domain.ErrAdminRequired
	}

	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if target.IsAdmin {
		return domain.ErrCannotDeleteAdmin
	}

	if err := s.userRepo.DeleteCascade(ctx, target.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the given login and revokes all of
// the user's live sessions, so a reset locks out whoever held the old ones.
func (s *UserService) ResetPassword(ctx context.Context, login, password string) error {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// EnsureAdmin seeds the bootstrap administrator on first run. Returns true
// when the account was created, false when it already existed.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	_, err := s.userRepo.FindByLogin(ctx, AdminLogin)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return false, err
	}

	admin := domain.NewUser(AdminLogin, AdminEmail, AdminName, "", hash)
	admin.IsAdmin = true
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	return true, nil
}
