package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.AddressRepository = (*AddressRepository)(nil)

// AddressRepository handles MongoDB operations for Address
type AddressRepository struct {
	collection *mongo.Collection
}

// NewAddressRepository creates a new AddressRepository
func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{collection: db.Collection(addressesCollection)}
}

// Create inserts a new address
func (r *AddressRepository) Create(ctx context.Context, a *models.Address) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// BelongsTo reports whether the address exists and is owned by userID.
func (r *AddressRepository) BelongsTo(ctx context.Context, addressID, userID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": addressID, "userId": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
