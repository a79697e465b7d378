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

const notificationCollectionName = "notifications"

// mongoNotificationRepository implements repository.NotificationRepository
type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new Notification repository.
func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{
		collection: db.Collection(notificationCollectionName),
	}
}

// Create inserts a new notification record.
func (r *mongoNotificationRepository) Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	if notification.RecipientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("notification requires recipientId")
	}
	notification.ID = primitive.NewObjectID()
	notification.IsRead = false
	notification.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted notification ID")
	}
	return insertedID, nil
}

// ListByRecipient retrieves the recipient's notifications, newest first.
func (r *mongoNotificationRepository) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, limit, skip int64) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.collection.Find(ctx, bson.M{"recipientId": recipientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []domain.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag on one of the recipient's notifications and
// returns the updated record. The flag is the only mutable field.
func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) (*domain.Notification, error) {
	filter := bson.M{"_id": id, "recipientId": recipientID}
	update := bson.M{"$set": bson.M{"isRead": true}}
	findOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var notification domain.Notification
	err := r.collection.FindOneAndUpdate(ctx, filter, update, findOptions).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// MarkAllRead flips the read flag on every unread notification of the recipient.
func (r *mongoNotificationRepository) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipientId": recipientID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	return err
}

// EnsureNotificationIndexes creates necessary indexes. Call during startup.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
