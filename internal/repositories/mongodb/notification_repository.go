package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository implements the repositories.NotificationRepository interface
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection(notificationsCollection),
	}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Status == "" {
		n.Status = models.NotificationPending
	}
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// UpdateStatus records the delivery outcome of a notification
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id, status, messageID, errMsg string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":    status,
			"messageId": messageID,
			"error":     errMsg,
			"updatedAt": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("notification %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// FindByUserID finds notifications by user ID with pagination
func (r *NotificationRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Notification, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions(page, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []*models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
