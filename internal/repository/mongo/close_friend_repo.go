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

const closeFriendCollectionName = "close_friends"

// mongoCloseFriendRepository implements repository.CloseFriendRepository
type mongoCloseFriendRepository struct {
	collection *mongo.Collection
}

// NewMongoCloseFriendRepository creates a new CloseFriend repository.
func NewMongoCloseFriendRepository(db *mongo.Database) repository.CloseFriendRepository {
	return &mongoCloseFriendRepository{
		collection: db.Collection(closeFriendCollectionName),
	}
}

// Add upserts the directed (owner -> friend) link; adding twice is a no-op.
func (r *mongoCloseFriendRepository) Add(ctx context.Context, ownerID, friendID primitive.ObjectID) error {
	if ownerID == primitive.NilObjectID || friendID == primitive.NilObjectID {
		return errors.New("close friend requires ownerId and friendId")
	}
	filter := bson.M{"ownerId": ownerID, "friendId": friendID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"ownerId":   ownerID,
			"friendId":  friendID,
			"createdAt": time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Remove deletes the directed link; removing an absent link is a no-op.
func (r *mongoCloseFriendRepository) Remove(ctx context.Context, ownerID, friendID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"ownerId": ownerID, "friendId": friendID})
	return err
}

// Exists reports whether owner marked friend as close.
func (r *mongoCloseFriendRepository) Exists(ctx context.Context, ownerID, friendID primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"ownerId": ownerID, "friendId": friendID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListFriendIDs returns the ids of everyone the owner marked close.
func (r *mongoCloseFriendRepository) ListFriendIDs(ctx context.Context, ownerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []domain.CloseFriend
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.FriendID)
	}
	return ids, nil
}

// RemoveBetween deletes close-friend links in both directions between the pair.
func (r *mongoCloseFriendRepository) RemoveBetween(ctx context.Context, a, b primitive.ObjectID) error {
	filter := bson.M{
		"$or": []bson.M{
			{"ownerId": a, "friendId": b},
			{"ownerId": b, "friendId": a},
		},
	}
	_, err := r.collection.DeleteMany(ctx, filter)
	return err
}

// EnsureCloseFriendIndexes creates necessary indexes. Call during startup.
func EnsureCloseFriendIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "friendId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
