package repositories

import (
	"context"
	"fmt"
	"time"

	"florist/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoOpTimeout = 5 * time.Second

type notificationDocument struct {
	ID      string    `bson:"_id"`
	UserID  string    `bson:"user_id"`
	Type    string    `bson:"type"`
	Title   string    `bson:"title"`
	Message string    `bson:"message"`
	Time    time.Time `bson:"time"`
	Read    bool      `bson:"read"`
}

// MongoNotificationRepository keeps notification feeds in a MongoDB
// collection, one document per entry.
type MongoNotificationRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoNotificationRepository connects, pings and ensures the feed index.
func NewMongoNotificationRepository(uri, dbName string) (*MongoNotificationRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(dbName).Collection("notifications")
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "time", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &MongoNotificationRepository{client: client, collection: collection}, nil
}

// Close disconnects the client.
func (r *MongoNotificationRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoNotificationRepository) ListByUser(userID string) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	cur, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "time", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	var docs []notificationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	list := make([]models.Notification, len(docs))
	for i := range docs {
		list[i] = toNotification(&docs[i])
	}
	return list, nil
}

func (r *MongoNotificationRepository) Create(n *models.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, toNotificationDocument(n)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) MarkRead(userID, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return nil
}

func (r *MongoNotificationRepository) DeleteAllByUser(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

func toNotificationDocument(n *models.Notification) *notificationDocument {
	return &notificationDocument{
		ID:      n.ID,
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		Time:    n.Time,
		Read:    n.Read,
	}
}

func toNotification(d *notificationDocument) models.Notification {
	return models.Notification{
		ID:      d.ID,
		UserID:  d.UserID,
		Type:    models.NotificationType(d.Type),
		Title:   d.Title,
		Message: d.Message,
		Time:    d.Time,
		Read:    d.Read,
	}
}
