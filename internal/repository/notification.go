package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/models"
)

// NotificationRepo persists notification records. The realtime layer never
// writes through this repo; it only observes inserts via the change stream.
type NotificationRepo struct {
	col *mongo.Collection
}

// NotificationsCollection is also watched by the change-stream consumer.
const NotificationsCollection = "notifications"

func NewNotificationRepo(db *mongo.Database) *NotificationRepo {
	return &NotificationRepo{col: db.Collection(NotificationsCollection)}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int64) ([]*models.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cursor.Close(ctx)
	var notifs []*models.Notification
	if err := cursor.All(ctx, &notifs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifs, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkRead flips the read flag; the userID filter stops a user from marking
// someone else's notification.
func (r *NotificationRepo) MarkRead(ctx context.Context, id primitive.ObjectID, userID int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("mark read %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("mark all read for %d: %w", userID, err)
	}
	return nil
}
