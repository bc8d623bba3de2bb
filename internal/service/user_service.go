package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"damagelens/internal/cache"
	"damagelens/internal/errors"
	"damagelens/internal/model"
	"damagelens/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// ProfileUpdate carries the optional fields of a profile update. Nil means
// "leave unchanged"; ImageName is the stored filename of a freshly uploaded
// profile image, empty when none accompanied the request.
type ProfileUpdate struct {
	Name      *string
	Email     *string
	ImageName string
}

// UserService exposes profile and admin user management operations.
type UserService interface {
	GetProfile(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, id uint) error
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id uint, role string) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetProfile returns the user's public fields, read through the cache.
func (s *userService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, profileCacheTTL)
	}

	return user, nil
}

// UpdateProfile mutates only the supplied fields. An email change that
// collides with a different user fails with ErrEmailTaken.
func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		existing, err := s.repo.FindByEmail(ctx, *update.Email)
		if err == nil && existing != nil && existing.ID != id {
			return nil, errors.ErrEmailTaken
		}
		if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = *update.Email
	}

	if update.Name != nil {
		user.Name = *update.Name
	}

	if update.ImageName != "" {
		user.ProfileImage = update.ImageName
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// ChangePassword verifies the old password before re-hashing and storing the
// new one.
func (s *userService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// DeleteAccount removes the user's own record permanently. Already-issued
// tokens for the id keep verifying cryptographically but resolve to a user
// that no longer exists; profile lookups fail from then on.
func (s *userService) DeleteAccount(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// ListUsers returns all users for the admin dashboard.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateRole sets a user's role; only "user" and "admin" are accepted.
func (s *userService) UpdateRole(ctx context.Context, id uint, role string) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, errors.ErrInvalidRole
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// DeleteUser removes any user by id (admin operation). Historical
// notifications and predictions referencing the user are kept.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	return s.DeleteAccount(ctx, id)
}
