package models

import (
	"time"
)

// TransactionType is the business reason for a ledger entry.
type TransactionType string

const (
	TransactionEarn   TransactionType = "EARN"
	TransactionRedeem TransactionType = "REDEEM"
)

// Transaction is one append-only ledger row. Amount is positive for EARN and
// negative for REDEEM; the sum of a user's amounts equals User.Points.
type Transaction struct {
	ID           string          `bson:"_id" json:"id"`
	UserID       string          `bson:"userId" json:"userId"`
	Type         TransactionType `bson:"type" json:"type"`
	Amount       int64           `bson:"amount" json:"amount"`
	BalanceAfter int64           `bson:"balanceAfter" json:"balanceAfter"`
	Description  string          `bson:"description" json:"description"`
	RelatedID    string          `bson:"relatedId,omitempty" json:"relatedId,omitempty"` // donation request or reward
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
}
