package mongo

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const interactionCollectionName = "user_interactions"

// mongoInteractionRepository implements repository.InteractionRepository
type mongoInteractionRepository struct {
	collection *mongo.Collection
}

// NewMongoInteractionRepository creates a new UserInteraction repository.
func NewMongoInteractionRepository(db *mongo.Database) repository.InteractionRepository {
	return &mongoInteractionRepository{
		collection: db.Collection(interactionCollectionName),
	}
}

// Create inserts a new interaction record.
func (r *mongoInteractionRepository) Create(ctx context.Context, interaction *domain.UserInteraction) (primitive.ObjectID, error) {
	if interaction.SenderID == primitive.NilObjectID || interaction.RecipientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("interaction requires senderId and recipientId")
	}
	interaction.ID = primitive.NewObjectID()
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, interaction)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted interaction ID")
	}
	return insertedID, nil
}

// CountBySenderSince counts actions of one type by the sender since the
// given instant.
func (r *mongoInteractionRepository) CountBySenderSince(ctx context.Context, senderID primitive.ObjectID, action domain.InteractionAction, since time.Time) (int64, error) {
	filter := bson.M{
		"senderId":   senderID,
		"actionType": action,
		"createdAt":  bson.M{"$gte": since},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// ExistsForRecipientSince reports whether the sender already sent this
// action to the recipient since the given instant.
func (r *mongoInteractionRepository) ExistsForRecipientSince(ctx context.Context, senderID, recipientID primitive.ObjectID, action domain.InteractionAction, since time.Time) (bool, error) {
	filter := bson.M{
		"senderId":    senderID,
		"recipientId": recipientID,
		"actionType":  action,
		"createdAt":   bson.M{"$gte": since},
	}
	err := r.collection.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureInteractionIndexes creates necessary indexes. Call during startup.
func EnsureInteractionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "senderId", Value: 1}, {Key: "actionType", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
