package notify

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/push"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification describes one notification to deliver. Sender and Reference
// are optional.
type Notification struct {
	Recipient primitive.ObjectID
	Sender    *primitive.ObjectID
	Type      string
	Reference *primitive.ObjectID
	Title     string
	Message   string
}

// Notifier records notifications and triggers push delivery. Every method
// is best effort and returns nothing: failing to record or deliver a
// notification must never block the business transaction that caused it.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
	// Fanout sends one notification per recipient.
	Fanout(ctx context.Context, recipients []primitive.ObjectID, n Notification)
}

type notifier struct {
	notifications repository.NotificationRepository
	sender        push.Sender
}

// New creates the default Notifier.
func New(notifications repository.NotificationRepository, sender push.Sender) Notifier {
	return &notifier{
		notifications: notifications,
		sender:        sender,
	}
}

// Notify persists the notification, then attempts the push send regardless
// of whether persistence worked. Both failures are swallowed and logged.
func (n *notifier) Notify(ctx context.Context, notification Notification) {
	record := &domain.Notification{
		RecipientID: notification.Recipient,
		SenderID:    notification.Sender,
		Type:        notification.Type,
		ReferenceID: notification.Reference,
		Title:       notification.Title,
		Message:     notification.Message,
	}
	if _, err := n.notifications.Create(ctx, record); err != nil {
		log.Error().Err(err).
			Str("recipient", notification.Recipient.Hex()).
			Str("type", notification.Type).
			Msg("failed to persist notification")
	}

	if err := n.sender.Push(ctx, []string{notification.Recipient.Hex()}, notification.Title, notification.Message); err != nil {
		log.Error().Err(err).
			Str("recipient", notification.Recipient.Hex()).
			Str("type", notification.Type).
			Msg("failed to push notification")
	}
}

// Fanout delivers the notification to each recipient in turn.
func (n *notifier) Fanout(ctx context.Context, recipients []primitive.ObjectID, notification Notification) {
	for _, recipient := range recipients {
		notification.Recipient = recipient
		n.Notify(ctx, notification)
	}
}
