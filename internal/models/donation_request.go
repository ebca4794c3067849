package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state of a donation request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestAccepted  RequestStatus = "ACCEPTED"
	RequestCompleted RequestStatus = "COMPLETED"
	RequestCancelled RequestStatus = "CANCELLED"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:  {RequestAccepted, RequestCancelled},
	RequestAccepted: {RequestCompleted, RequestCancelled},
}

// CanTransition reports whether from -> to is an edge of the request state
// machine. COMPLETED and CANCELLED are terminal.
func CanTransition(from, to RequestStatus) bool {
	for _, s := range requestTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionsInto returns the states from which to can be reached, for use
// as the precondition of a conditional status write.
func TransitionsInto(to RequestStatus) []RequestStatus {
	var from []RequestStatus
	for _, s := range []RequestStatus{RequestPending, RequestAccepted, RequestCompleted, RequestCancelled} {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// MaxWeightKg bounds estimated and actual weights.
var MaxWeightKg = decimal.NewFromInt(100_000)

// DonationRequest is a donor's offer of waste to be collected.
// ActualWeight stays nil until the request is COMPLETED.
type DonationRequest struct {
	ID              string           `bson:"_id" json:"id"`
	DonorID         string           `bson:"donorId" json:"donorId"`
	CategoryID      string           `bson:"categoryId" json:"categoryId"`
	AddressID       string           `bson:"addressId" json:"addressId"`
	EstimatedWeight decimal.Decimal  `bson:"estimatedWeight" json:"estimatedWeight"`
	ActualWeight    *decimal.Decimal `bson:"actualWeight,omitempty" json:"actualWeight,omitempty"`
	Status          RequestStatus    `bson:"status" json:"status"`
	Notes           string           `bson:"notes,omitempty" json:"notes,omitempty"`
	PreferredDate   *time.Time       `bson:"preferredDate,omitempty" json:"preferredDate,omitempty"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// RequestPatch carries the donor-editable fields of a PENDING request. Nil
// fields are left unchanged.
type RequestPatch struct {
	CategoryID      *string          `json:"categoryId,omitempty"`
	AddressID       *string          `json:"addressId,omitempty"`
	EstimatedWeight *decimal.Decimal `json:"estimatedWeight,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	PreferredDate   *time.Time       `json:"preferredDate,omitempty"`
}

// Apply copies the set fields of p onto r.
func (p RequestPatch) Apply(r *DonationRequest) {
	if p.CategoryID != nil {
		r.CategoryID = *p.CategoryID
	}
	if p.AddressID != nil {
		r.AddressID = *p.AddressID
	}
	if p.EstimatedWeight != nil {
		r.EstimatedWeight = *p.EstimatedWeight
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.PreferredDate != nil {
		t := *p.PreferredDate
		r.PreferredDate = &t
	}
}
