package models

import "time"

// Address is a pickup location owned by a user.
type Address struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Label     string    `bson:"label,omitempty" json:"label,omitempty"`
	Line1     string    `bson:"line1" json:"line1"`
	City      string    `bson:"city,omitempty" json:"city,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
