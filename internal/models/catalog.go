package models

import (
	"github.com/shopspring/decimal"
)

// WasteCategory is a kind of recyclable with its points rate.
type WasteCategory struct {
	ID          string          `bson:"_id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	PointsPerKg decimal.Decimal `bson:"pointsPerKg" json:"pointsPerKg"`
	IsActive    bool            `bson:"isActive" json:"isActive"`
}

// Reward is a catalog item exchangeable for points. Stock never goes
// negative.
type Reward struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	PointsCost  int64  `bson:"pointsCost" json:"pointsCost"`
	Stock       int64  `bson:"stock" json:"stock"`
	IsActive    bool   `bson:"isActive" json:"isActive"`
}

// Available reports whether the reward can be redeemed right now.
func (r *Reward) Available() bool {
	return r.IsActive && r.Stock > 0
}
