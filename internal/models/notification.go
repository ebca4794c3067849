package models

import (
	"time"
)

// NotificationKind identifies the lifecycle event a notification reports.
type NotificationKind string

const (
	NotifyRequestAccepted  NotificationKind = "REQUEST_ACCEPTED"
	NotifyRequestCompleted NotificationKind = "REQUEST_COMPLETED"
	NotifyRequestCancelled NotificationKind = "REQUEST_CANCELLED"
	NotifyRewardRedeemed   NotificationKind = "REWARD_REDEEMED"
)

// Notification delivery states.
const (
	NotificationPending = "PENDING"
	NotificationSent    = "SENT"
	NotificationFailed  = "FAILED"
)

// Notification represents a notification sent to a user
type Notification struct {
	ID        string                 `bson:"_id" json:"id"`
	UserID    string                 `bson:"userId" json:"userId"`
	Kind      NotificationKind       `bson:"kind" json:"kind"`
	Payload   map[string]interface{} `bson:"payload,omitempty" json:"payload,omitempty"`
	Status    string                 `bson:"status" json:"status"`
	Gateway   string                 `bson:"gateway" json:"gateway"`
	MessageID string                 `bson:"messageId,omitempty" json:"messageId,omitempty"`
	Error     string                 `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt" json:"updatedAt"`
}
