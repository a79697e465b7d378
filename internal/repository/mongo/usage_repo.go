package mongo

import (
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usageCollectionName = "usage_metrics"

// mongoUsageRepository implements repository.UsageRepository with one
// upserted counter document per user.
type mongoUsageRepository struct {
	collection *mongo.Collection
}

// NewMongoUsageRepository creates a new usage-metrics repository.
func NewMongoUsageRepository(db *mongo.Database) repository.UsageRepository {
	return &mongoUsageRepository{
		collection: db.Collection(usageCollectionName),
	}
}

func (r *mongoUsageRepository) increment(ctx context.Context, userID primitive.ObjectID, counter string) error {
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$inc":         bson.M{counter: 1},
		"$set":         bson.M{"lastSeenAt": time.Now().UTC()},
		"$setOnInsert": bson.M{"userId": userID},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoUsageRepository) IncrementAPICalls(ctx context.Context, userID primitive.ObjectID) error {
	return r.increment(ctx, userID, "totalApiCalls")
}

func (r *mongoUsageRepository) IncrementExtractorCalls(ctx context.Context, userID primitive.ObjectID) error {
	return r.increment(ctx, userID, "extractorCalls")
}

func (r *mongoUsageRepository) IncrementRubbishLogs(ctx context.Context, userID primitive.ObjectID) error {
	return r.increment(ctx, userID, "rubbishVoiceLogs")
}

// EnsureUsageIndexes creates necessary indexes. Call during startup.
func EnsureUsageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
