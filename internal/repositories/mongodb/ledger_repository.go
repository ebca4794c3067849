package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure LedgerRepository implements the interface
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository keeps user balances on the users collection and the
// append-only log in transactions.
type LedgerRepository struct {
	users        *mongo.Collection
	transactions *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		users:        db.Collection(usersCollection),
		transactions: db.Collection(transactionsCollection),
	}
}

// Credit increments the balance and appends an EARN entry.
func (r *LedgerRepository) Credit(ctx context.Context, userID string, amount int64, description, relatedID string) (*models.Transaction, error) {
	if amount < 0 {
		return nil, fmt.Errorf("credit amount must be non-negative, got %d", amount)
	}
	now := time.Now().UTC()

	var user models.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"points": amount}, "$set": bson.M{"updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, notFound(err, "user "+userID)
	}
	return r.append(ctx, userID, models.TransactionEarn, amount, user.Points, description, relatedID, now)
}

// Debit decrements the balance only if it covers amount; the $gte filter and
// the $inc are one atomic document update.
func (r *LedgerRepository) Debit(ctx context.Context, userID string, amount int64, description, relatedID string) (*models.Transaction, error) {
	if amount < 0 {
		return nil, fmt.Errorf("debit amount must be non-negative, got %d", amount)
	}
	now := time.Now().UTC()

	var user models.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID, "points": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"points": -amount}, "$set": bson.M{"updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, cerr := r.users.CountDocuments(ctx, bson.M{"_id": userID})
		if cerr != nil {
			return nil, cerr
		}
		if n == 0 {
			return nil, fmt.Errorf("user %s: %w", userID, repositories.ErrNotFound)
		}
		return nil, repositories.ErrInsufficientFunds
	}
	if err != nil {
		return nil, err
	}
	return r.append(ctx, userID, models.TransactionRedeem, -amount, user.Points, description, relatedID, now)
}

func (r *LedgerRepository) append(ctx context.Context, userID string, typ models.TransactionType, amount, balance int64, description, relatedID string, at time.Time) (*models.Transaction, error) {
	tx := &models.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         typ,
		Amount:       amount,
		BalanceAfter: balance,
		Description:  description,
		RelatedID:    relatedID,
		CreatedAt:    at,
	}
	if _, err := r.transactions.InsertOne(ctx, tx); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}
	return tx, nil
}

// FindByUserID finds a user's ledger entries, newest first.
func (r *LedgerRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Transaction, error) {
	cursor, err := r.transactions.Find(ctx, bson.M{"userId": userID}, findOptions(page, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	transactions := []*models.Transaction{}
	if err = cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// SumByUserID aggregates the sum of a user's ledger amounts.
func (r *LedgerRepository) SumByUserID(ctx context.Context, userID string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.transactions.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}
