package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendshipStatus type for the friendship lifecycle.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

// FriendshipRelation is the status of a pair as seen from one side.
// "Sent"/"received" are relative to the user asking.
type FriendshipRelation string

const (
	RelationNone            FriendshipRelation = "none"
	RelationPendingSent     FriendshipRelation = "pending_sent"
	RelationPendingReceived FriendshipRelation = "pending_received"
	RelationAccepted        FriendshipRelation = "accepted"
)

// Friendship is the single record for an unordered user pair. The requester
// is whoever initiated; acceptance makes the relation symmetric.
type Friendship struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID primitive.ObjectID `bson:"requesterId" json:"requesterId"`
	AddresseeID primitive.ObjectID `bson:"addresseeId" json:"addresseeId"`
	Status      FriendshipStatus   `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CloseFriend is a directed refinement of an accepted friendship:
// the owner marking a friend close says nothing about the reverse direction.
type CloseFriend struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	FriendID  primitive.ObjectID `bson:"friendId" json:"friendId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// InteractionAction type for the rate-limited social pokes.
type InteractionAction string

const (
	ActionNudge InteractionAction = "nudge"
	ActionSpot  InteractionAction = "spot"
)

// UserInteraction records one nudge/spot; kept only to enforce rate limits.
type UserInteraction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID `bson:"senderId" json:"senderId"`
	RecipientID primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	ActionType  InteractionAction  `bson:"actionType" json:"actionType"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
