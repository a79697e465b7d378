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

const friendshipCollectionName = "friendships"

// mongoFriendshipRepository implements repository.FriendshipRepository
type mongoFriendshipRepository struct {
	collection *mongo.Collection
}

// NewMongoFriendshipRepository creates a new Friendship repository.
func NewMongoFriendshipRepository(db *mongo.Database) repository.FriendshipRepository {
	return &mongoFriendshipRepository{
		collection: db.Collection(friendshipCollectionName),
	}
}

// pairFilter matches the row between a and b in either direction.
func pairFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"requesterId": a, "addresseeId": b},
			{"requesterId": b, "addresseeId": a},
		},
	}
}

// Create inserts a new friendship row.
func (r *mongoFriendshipRepository) Create(ctx context.Context, friendship *domain.Friendship) (primitive.ObjectID, error) {
	if friendship.RequesterID == primitive.NilObjectID || friendship.AddresseeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("friendship requires requesterId and addresseeId")
	}
	friendship.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	friendship.CreatedAt = now
	friendship.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, friendship)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted friendship ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single friendship by its ID.
func (r *mongoFriendshipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Friendship, error) {
	var friendship domain.Friendship
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&friendship)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// GetDirected retrieves the row where requester requested addressee.
func (r *mongoFriendshipRepository) GetDirected(ctx context.Context, requesterID, addresseeID primitive.ObjectID) (*domain.Friendship, error) {
	var friendship domain.Friendship
	filter := bson.M{"requesterId": requesterID, "addresseeId": addresseeID}
	err := r.collection.FindOne(ctx, filter).Decode(&friendship)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// GetBetween retrieves the row between the pair in either direction,
// any status.
func (r *mongoFriendshipRepository) GetBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Friendship, error) {
	var friendship domain.Friendship
	err := r.collection.FindOne(ctx, pairFilter(a, b)).Decode(&friendship)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// GetAcceptedBetween retrieves the accepted row between the pair, if any.
func (r *mongoFriendshipRepository) GetAcceptedBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Friendship, error) {
	filter := pairFilter(a, b)
	filter["status"] = domain.FriendshipAccepted

	var friendship domain.Friendship
	err := r.collection.FindOne(ctx, filter).Decode(&friendship)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// UpdateStatus flips the status of an existing row.
func (r *mongoFriendshipRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.FriendshipStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a friendship row.
func (r *mongoFriendshipRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListAcceptedFor retrieves all accepted friendships involving the user,
// in either role.
func (r *mongoFriendshipRepository) ListAcceptedFor(ctx context.Context, userID primitive.ObjectID) ([]domain.Friendship, error) {
	filter := bson.M{
		"status": domain.FriendshipAccepted,
		"$or": []bson.M{
			{"requesterId": userID},
			{"addresseeId": userID},
		},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []domain.Friendship
	if err = cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}
	return friendships, nil
}

// ListPendingFor retrieves pending requests addressed to the user.
func (r *mongoFriendshipRepository) ListPendingFor(ctx context.Context, addresseeID primitive.ObjectID) ([]domain.Friendship, error) {
	filter := bson.M{"addresseeId": addresseeID, "status": domain.FriendshipPending}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []domain.Friendship
	if err = cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}
	return friendships, nil
}

// EnsureFriendshipIndexes creates necessary indexes. Call during startup.
func EnsureFriendshipIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "requesterId", Value: 1}, {Key: "addresseeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "addresseeId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
