package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types used across the app.
const (
	NotificationFriendRequest = "FRIEND_REQUEST"
	NotificationFriendAccept  = "FRIEND_ACCEPT"
	NotificationWorkoutShare  = "WORKOUT_SHARE"
	NotificationReminder      = "REMINDER"
	NotificationNudge         = "NUDGE"
	NotificationSpot          = "SPOT"
)

// Notification is a persisted in-app notification. Write-once except for
// the read flag.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID  `bson:"recipientId" json:"recipientId"`
	SenderID    *primitive.ObjectID `bson:"senderId,omitempty" json:"senderId,omitempty"`
	Type        string              `bson:"type" json:"type"`
	ReferenceID *primitive.ObjectID `bson:"referenceId,omitempty" json:"referenceId,omitempty"`
	Title       string              `bson:"title" json:"title"`
	Message     string              `bson:"message" json:"message"`
	IsRead      bool                `bson:"isRead" json:"isRead"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// UsageMetric tracks per-user app usage counters. Pure telemetry: writes
// to it are always best-effort.
type UsageMetric struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	TotalAPICalls   int64              `bson:"totalApiCalls" json:"totalApiCalls"`
	ExtractorCalls  int64              `bson:"extractorCalls" json:"extractorCalls"`
	RubbishVoiceLog int64              `bson:"rubbishVoiceLogs" json:"rubbishVoiceLogs"`
	LastSeenAt      time.Time          `bson:"lastSeenAt" json:"lastSeenAt"`
}
