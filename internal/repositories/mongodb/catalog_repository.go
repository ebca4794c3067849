package mongodb

import (
	"context"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ repositories.CategoryRepository = (*CategoryRepository)(nil)
	_ repositories.RewardRepository   = (*RewardRepository)(nil)
)

// CategoryRepository handles MongoDB operations for WasteCategory
type CategoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection(categoriesCollection)}
}

// FindByID finds a waste category by ID
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.WasteCategory, error) {
	var c models.WasteCategory
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err, "waste category "+id)
	}
	return &c, nil
}

// Upsert replaces a category by ID, inserting it if missing
func (r *CategoryRepository) Upsert(ctx context.Context, c *models.WasteCategory) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	return err
}

// FindAll retrieves all categories sorted by name
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.WasteCategory, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []*models.WasteCategory{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// RewardRepository handles MongoDB operations for Reward
type RewardRepository struct {
	collection *mongo.Collection
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{collection: db.Collection(rewardsCollection)}
}

// FindByID finds a reward by ID
func (r *RewardRepository) FindByID(ctx context.Context, id string) (*models.Reward, error) {
	var rw models.Reward
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rw); err != nil {
		return nil, notFound(err, "reward "+id)
	}
	return &rw, nil
}

// DecrementStock takes one unit if the reward is active and in stock.
func (r *RewardRepository) DecrementStock(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": true, "stock": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"stock": -1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Upsert replaces a reward by ID, inserting it if missing
func (r *RewardRepository) Upsert(ctx context.Context, rw *models.Reward) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rw.ID}, rw, options.Replace().SetUpsert(true))
	return err
}

// FindAll retrieves all rewards sorted by name
func (r *RewardRepository) FindAll(ctx context.Context) ([]*models.Reward, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rewards := []*models.Reward{}
	if err := cursor.All(ctx, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}
