package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	all := []RequestStatus{RequestPending, RequestAccepted, RequestCompleted, RequestCancelled}
	allowed := map[[2]RequestStatus]bool{
		{RequestPending, RequestAccepted}:   true,
		{RequestPending, RequestCancelled}:  true,
		{RequestAccepted, RequestCompleted}: true,
		{RequestAccepted, RequestCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]RequestStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTransitionsInto(t *testing.T) {
	tests := []struct {
		to   RequestStatus
		want []RequestStatus
	}{
		{RequestPending, nil},
		{RequestAccepted, []RequestStatus{RequestPending}},
		{RequestCompleted, []RequestStatus{RequestAccepted}},
		{RequestCancelled, []RequestStatus{RequestPending, RequestAccepted}},
	}
	for _, tt := range tests {
		got := TransitionsInto(tt.to)
		if len(got) != len(tt.want) {
			t.Errorf("TransitionsInto(%s) = %v, want %v", tt.to, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("TransitionsInto(%s) = %v, want %v", tt.to, got, tt.want)
				break
			}
		}
	}
}

func TestRequestPatch_Apply(t *testing.T) {
	r := &DonationRequest{
		CategoryID:      "cat-1",
		AddressID:       "addr-1",
		EstimatedWeight: decimal.NewFromInt(5),
		Notes:           "old",
	}
	notes := "ring the bell"
	weight := decimal.RequireFromString("7.5")
	when := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	RequestPatch{Notes: &notes, EstimatedWeight: &weight, PreferredDate: &when}.Apply(r)

	if r.Notes != notes {
		t.Errorf("Notes = %q, want %q", r.Notes, notes)
	}
	if !r.EstimatedWeight.Equal(weight) {
		t.Errorf("EstimatedWeight = %s, want %s", r.EstimatedWeight, weight)
	}
	if r.CategoryID != "cat-1" || r.AddressID != "addr-1" {
		t.Error("unset patch fields must be left unchanged")
	}
	if r.PreferredDate == nil || !r.PreferredDate.Equal(when) {
		t.Errorf("PreferredDate = %v, want %v", r.PreferredDate, when)
	}
}

func TestCollection_Redacted(t *testing.T) {
	c := Collection{ID: "c1", VerificationCode: "483920", VerificationImages: []string{"a.jpg"}}
	r := c.Redacted()
	if r.VerificationCode != "" {
		t.Errorf("Redacted().VerificationCode = %q, want empty", r.VerificationCode)
	}
	if c.VerificationCode != "483920" {
		t.Error("Redacted must not modify the original")
	}
	r.VerificationImages[0] = "b.jpg"
	if c.VerificationImages[0] != "a.jpg" {
		t.Error("Redacted must copy the images slice")
	}
}
