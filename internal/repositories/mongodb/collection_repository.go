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

// Compile-time check to ensure CollectionRepository implements the interface
var _ repositories.CollectionRepository = (*CollectionRepository)(nil)

// CollectionRepository handles MongoDB operations for Collection
type CollectionRepository struct {
	collection *mongo.Collection
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *mongo.Database) *CollectionRepository {
	return &CollectionRepository{
		collection: db.Collection(collectionsCollection),
	}
}

// Create inserts the claim. The unique index on donationRequestId rejects a
// second claim for the same request.
func (r *CollectionRepository) Create(ctx context.Context, c *models.Collection) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("collection for request %s: %w", c.DonationRequestID, repositories.ErrDuplicate)
	}
	return err
}

// FindByRequestID finds the claim for a donation request
func (r *CollectionRepository) FindByRequestID(ctx context.Context, requestID string) (*models.Collection, error) {
	var c models.Collection
	if err := r.collection.FindOne(ctx, bson.M{"donationRequestId": requestID}).Decode(&c); err != nil {
		return nil, notFound(err, "collection for request "+requestID)
	}
	return &c, nil
}

// MarkCollected stamps completion fields once. A nil filter value matches a
// missing collectedAt.
func (r *CollectionRepository) MarkCollected(ctx context.Context, c *models.Collection) (bool, error) {
	set := bson.M{
		"collectedAt":        c.CollectedAt,
		"verificationNotes":  c.VerificationNotes,
		"verificationImages": c.VerificationImages,
		"pointsAwarded":      c.PointsAwarded,
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": c.ID, "collectedAt": nil},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// FindByCollector finds a collector's claims with pagination
func (r *CollectionRepository) FindByCollector(ctx context.Context, collectorID string, page, limit int) ([]*models.Collection, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"collectorId": collectorID}, findOptions(page, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	collections := []*models.Collection{}
	if err := cursor.All(ctx, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}
