package repository

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	// AppendMetric pushes one history entry onto the given tracked field.
	// Pure append: no dedup, no sort.
	AppendMetric(ctx context.Context, userID primitive.ObjectID, field domain.MetricField, entry domain.MetricEntry) error
	// ApplyProfilePatch sets only the non-nil patch fields and marks the
	// user onboarded.
	ApplyProfilePatch(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) error
	SetAvatarKey(ctx context.Context, userID primitive.ObjectID, objectKey string) error
	// IncrementInteractionCount bumps the nudge or spot tally.
	IncrementInteractionCount(ctx context.Context, userID primitive.ObjectID, action domain.InteractionAction) error
	Search(ctx context.Context, query string, excludeID primitive.ObjectID, limit int64) ([]domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
// Exercise sets and cardio sessions are embedded in the workout document,
// so updates to a workout replace the whole aggregate atomically.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// GetByIDAndOwner returns ErrNotFound both for missing ids and for
	// workouts owned by someone else.
	GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Workout, error)
	// GetLatestByUser returns the user's most recently created workout,
	// any status, or ErrNotFound.
	GetLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	ListVisible(ctx context.Context, ownerID primitive.ObjectID, visibilities []domain.Visibility, limit int64) ([]domain.Workout, error)
	// ListPlannedOn returns planned workouts whose timestamp falls on the
	// given calendar day (UTC day bounds).
	ListPlannedOn(ctx context.Context, day time.Time) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	// UpdateStatusBatch flips the status of all given workouts in one write.
	UpdateStatusBatch(ctx context.Context, ids []primitive.ObjectID, status domain.WorkoutStatus) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

// FriendshipRepository defines the interface for friendship rows.
type FriendshipRepository interface {
	Create(ctx context.Context, friendship *domain.Friendship) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Friendship, error)
	// GetDirected returns the row where a requested b, if any.
	GetDirected(ctx context.Context, requesterID, addresseeID primitive.ObjectID) (*domain.Friendship, error)
	// GetBetween returns the row between the pair in either direction.
	GetBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Friendship, error)
	// GetAcceptedBetween returns the accepted row between the pair, if any.
	GetAcceptedBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Friendship, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.FriendshipStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListAcceptedFor(ctx context.Context, userID primitive.ObjectID) ([]domain.Friendship, error)
	ListPendingFor(ctx context.Context, addresseeID primitive.ObjectID) ([]domain.Friendship, error)
}

// CloseFriendRepository defines the interface for the directed
// close-friend refinement.
type CloseFriendRepository interface {
	// Add is idempotent: adding an existing link is a no-op.
	Add(ctx context.Context, ownerID, friendID primitive.ObjectID) error
	// Remove is idempotent: removing an absent link is a no-op.
	Remove(ctx context.Context, ownerID, friendID primitive.ObjectID) error
	Exists(ctx context.Context, ownerID, friendID primitive.ObjectID) (bool, error)
	ListFriendIDs(ctx context.Context, ownerID primitive.ObjectID) ([]primitive.ObjectID, error)
	// RemoveBetween deletes links in both directions between the pair,
	// used when a friendship is dissolved.
	RemoveBetween(ctx context.Context, a, b primitive.ObjectID) error
}

// InteractionRepository defines the interface for nudge/spot records.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.UserInteraction) (primitive.ObjectID, error)
	CountBySenderSince(ctx context.Context, senderID primitive.ObjectID, action domain.InteractionAction, since time.Time) (int64, error)
	ExistsForRecipientSince(ctx context.Context, senderID, recipientID primitive.ObjectID, action domain.InteractionAction, since time.Time) (bool, error)
}

// NotificationRepository defines the interface for persisted notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
	ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, limit, skip int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error
}

// UsageRepository defines the interface for per-user telemetry counters.
// Implementations upsert one document per user.
type UsageRepository interface {
	IncrementAPICalls(ctx context.Context, userID primitive.ObjectID) error
	IncrementExtractorCalls(ctx context.Context, userID primitive.ObjectID) error
	IncrementRubbishLogs(ctx context.Context, userID primitive.ObjectID) error
}
