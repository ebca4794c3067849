package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure DonationRequestRepository implements the interface
var _ repositories.DonationRequestRepository = (*DonationRequestRepository)(nil)

// DonationRequestRepository handles MongoDB operations for DonationRequest
type DonationRequestRepository struct {
	collection *mongo.Collection
}

// NewDonationRequestRepository creates a new DonationRequestRepository
func NewDonationRequestRepository(db *mongo.Database) *DonationRequestRepository {
	return &DonationRequestRepository{
		collection: db.Collection(requestsCollection),
	}
}

// Create inserts a new donation request
func (r *DonationRequestRepository) Create(ctx context.Context, req *models.DonationRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedAt = time.Now().UTC()
	req.UpdatedAt = req.CreatedAt
	_, err := r.collection.InsertOne(ctx, req)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByID finds a donation request by ID
func (r *DonationRequestRepository) FindByID(ctx context.Context, id string) (*models.DonationRequest, error) {
	var req models.DonationRequest
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, notFound(err, "donation request "+id)
	}
	return &req, nil
}

// UpdateDetails writes the editable fields while the request is PENDING.
func (r *DonationRequestRepository) UpdateDetails(ctx context.Context, req *models.DonationRequest) (bool, error) {
	now := time.Now().UTC()
	set := bson.M{
		"categoryId":      req.CategoryID,
		"addressId":       req.AddressID,
		"estimatedWeight": req.EstimatedWeight,
		"notes":           req.Notes,
		"updatedAt":       now,
	}
	update := bson.M{"$set": set}
	if req.PreferredDate != nil {
		set["preferredDate"] = req.PreferredDate
	} else {
		update["$unset"] = bson.M{"preferredDate": ""}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": req.ID, "status": models.RequestPending}, update)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, nil
	}
	req.UpdatedAt = now
	return true, nil
}

// CompareAndSetStatus moves the request to `to` if its status is in `from`.
func (r *DonationRequestRepository) CompareAndSetStatus(ctx context.Context, id string, from []models.RequestStatus, to models.RequestStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkCompleted sets COMPLETED and the actual weight while ACCEPTED.
func (r *DonationRequestRepository) MarkCompleted(ctx context.Context, id string, actualWeight decimal.Decimal) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestAccepted},
		bson.M{"$set": bson.M{
			"status":       models.RequestCompleted,
			"actualWeight": actualWeight,
			"updatedAt":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// FindByDonor finds a donor's requests with pagination
func (r *DonationRequestRepository) FindByDonor(ctx context.Context, donorID string, page, limit int) ([]*models.DonationRequest, error) {
	return r.find(ctx, bson.M{"donorId": donorID}, page, limit)
}

// FindByStatus finds requests in a status with pagination
func (r *DonationRequestRepository) FindByStatus(ctx context.Context, status models.RequestStatus, page, limit int) ([]*models.DonationRequest, error) {
	return r.find(ctx, bson.M{"status": status}, page, limit)
}

func (r *DonationRequestRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.DonationRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions(page, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []*models.DonationRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
