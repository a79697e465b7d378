package service

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService exposes the persisted notification feed. Writes go
// through notify.Notifier; this service only reads and flips read flags.
type NotificationService interface {
	List(ctx context.Context, recipientID primitive.ObjectID, limit, skip int64) ([]domain.Notification, error)
	// MarkRead flips the read flag; a missing or foreign id yields (nil, nil).
	MarkRead(ctx context.Context, notificationID, recipientID primitive.ObjectID) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error
}

type notificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService creates a new instance of notificationService.
func NewNotificationService(notifications repository.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, recipientID primitive.ObjectID, limit, skip int64) ([]domain.Notification, error) {
	return s.notifications.ListByRecipient(ctx, recipientID, limit, skip)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, recipientID primitive.ObjectID) (*domain.Notification, error) {
	notification, err := s.notifications.MarkRead(ctx, notificationID, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error {
	return s.notifications.MarkAllRead(ctx, recipientID)
}
