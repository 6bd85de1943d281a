package inbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollection = "inbox_notifications"

// MongoStorage is a MongoDB-backed implementation of Storage.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage creates a MongoDB inbox storage using the given database
// and ensures the indexes the read paths depend on.
func NewMongoStorage(ctx context.Context, db *mongo.Database) (*MongoStorage, error) {
	coll := db.Collection(defaultCollection)

	// List and CountUnread always filter by user; MarkRead/Delete add _id.
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create inbox indexes: %w", err)
	}

	return &MongoStorage{coll: coll}, nil
}

func (s *MongoStorage) Create(ctx context.Context, notif Notification) error {
	if notif.ID == "" {
		return ErrIDRequired
	}
	if notif.UserID == "" {
		return ErrUserIDRequired
	}
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	if _, err := s.coll.InsertOne(ctx, notif); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	var notif Notification
	err := s.coll.FindOne(ctx, bson.M{"_id": notifID, "user_id": userID}).Decode(&notif)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch notification: %w", err)
	}
	return &notif, nil
}

func (s *MongoStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	filter := bson.M{"user_id": userID}
	if opts.OnlyUnread {
		filter["read"] = false
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (s *MongoStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}

	now := time.Now()
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": notifIDs}, "user_id": userID},
		bson.M{"$set": bson.M{"read": true, "read_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *MongoStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return int(count), nil
}

func (s *MongoStorage) Delete(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}

	_, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": notifIDs}, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}
