package models

import (
	"time"
)

// Collection is the claim binding one collector to one donation request.
// CollectorID and VerificationCode never change after creation;
// CollectedAt and PointsAwarded are stamped once, at completion.
type Collection struct {
	ID                 string     `bson:"_id" json:"id"`
	DonationRequestID  string     `bson:"donationRequestId" json:"donationRequestId"`
	CollectorID        string     `bson:"collectorId" json:"collectorId"`
	VerificationCode   string     `bson:"verificationCode" json:"verificationCode,omitempty"`
	CollectedAt        *time.Time `bson:"collectedAt,omitempty" json:"collectedAt,omitempty"`
	VerificationNotes  string     `bson:"verificationNotes,omitempty" json:"verificationNotes,omitempty"`
	VerificationImages []string   `bson:"verificationImages,omitempty" json:"verificationImages,omitempty"`
	PointsAwarded      *int64     `bson:"pointsAwarded,omitempty" json:"pointsAwarded,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
}

// Redacted returns a copy without the verification code.
func (c Collection) Redacted() *Collection {
	c.VerificationCode = ""
	if c.VerificationImages != nil {
		c.VerificationImages = append([]string(nil), c.VerificationImages...)
	}
	return &c
}
