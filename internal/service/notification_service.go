package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"damagelens/internal/errors"
	"damagelens/internal/model"
	"damagelens/internal/repository"
)

// NotificationService handles notification creation, listing and
// read-acknowledgement.
type NotificationService interface {
	Create(ctx context.Context, title, message string, targetUserID *uint) (*model.Notification, error)
	ListAll(ctx context.Context) ([]model.Notification, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, requesterID uint, requesterIsAdmin bool) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// Create stores a broadcast (targetUserID nil) or targeted notification.
// A target user, if given, must exist.
func (s *notificationService) Create(ctx context.Context, title, message string, targetUserID *uint) (*model.Notification, error) {
	if targetUserID != nil {
		if _, err := s.userRepo.FindByID(ctx, *targetUserID); err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrUserNotFound
			}
			return nil, fmt.Errorf("resolve target user: %w", err)
		}
	}

	notification := &model.Notification{
		Title:   title,
		Message: message,
		UserID:  targetUserID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	return notification, nil
}

// ListAll returns every notification for the admin view, newest first.
func (s *notificationService) ListAll(ctx context.Context) ([]model.Notification, error) {
	return s.notificationRepo.ListAll(ctx)
}

// ListForUser returns the user's targeted notifications plus broadcasts,
// newest first.
func (s *notificationService) ListForUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	return s.notificationRepo.ListForUser(ctx, userID)
}

// MarkRead sets the read flag. For a targeted notification only the target
// user or an admin may acknowledge it. The flag is stored once on the record,
// so acknowledging a broadcast marks it read for every viewer.
func (s *notificationService) MarkRead(ctx context.Context, id, requesterID uint, requesterIsAdmin bool) error {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrNotificationNotFound
		}
		return err
	}

	if !notification.Broadcast() && *notification.UserID != requesterID && !requesterIsAdmin {
		return errors.ErrNotOwner
	}

	return s.notificationRepo.MarkRead(ctx, id)
}
