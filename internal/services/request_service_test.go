package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateRequest_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	otherAddr := &models.Address{UserID: e.collector.UserID, Line1: "9 Other St"}
	if err := e.store.Repositories().Addresses.Create(ctx, otherAddr); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		actor models.Actor
		in    CreateRequestInput
		want  apperrors.Kind
	}{
		{"inactive category", e.donor, CreateRequestInput{CategoryID: "ewaste", AddressID: e.addressID, EstimatedWeight: decimal.NewFromInt(1)}, apperrors.KindValidation},
		{"unknown category", e.donor, CreateRequestInput{CategoryID: "paper", AddressID: e.addressID, EstimatedWeight: decimal.NewFromInt(1)}, apperrors.KindNotFound},
		{"foreign address", e.donor, CreateRequestInput{CategoryID: "plastic", AddressID: otherAddr.ID, EstimatedWeight: decimal.NewFromInt(1)}, apperrors.KindNotFound},
		{"missing address", e.donor, CreateRequestInput{CategoryID: "plastic", AddressID: uuid.NewString(), EstimatedWeight: decimal.NewFromInt(1)}, apperrors.KindNotFound},
		{"zero weight", e.donor, CreateRequestInput{CategoryID: "plastic", AddressID: e.addressID, EstimatedWeight: decimal.Zero}, apperrors.KindValidation},
		{"huge weight", e.donor, CreateRequestInput{CategoryID: "plastic", AddressID: e.addressID, EstimatedWeight: decimal.RequireFromString("1e40")}, apperrors.KindValidation},
		{"collector", e.collector, CreateRequestInput{CategoryID: "plastic", AddressID: e.addressID, EstimatedWeight: decimal.NewFromInt(1)}, apperrors.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.requests.CreateRequest(ctx, tt.actor, tt.in)
			wantKind(t, err, tt.want)
		})
	}

	mine, _ := e.requests.ListMine(ctx, e.donor, 1, 10)
	if len(mine) != 0 {
		t.Errorf("rejected creates persisted %d requests", len(mine))
	}
}

func TestCreateRequest_PreferredDate(t *testing.T) {
	e := newEnv(t)
	when := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	req, err := e.requests.CreateRequest(context.Background(), e.donor, CreateRequestInput{
		CategoryID:      "plastic",
		AddressID:       e.addressID,
		EstimatedWeight: decimal.RequireFromString("2.25"),
		Notes:           "ring twice",
		PreferredDate:   &when,
	})
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := e.store.Repositories().Requests.FindByID(context.Background(), req.ID)
	if stored.PreferredDate == nil || !stored.PreferredDate.Equal(when) {
		t.Errorf("PreferredDate = %v, want %v", stored.PreferredDate, when)
	}
	if stored.Notes != "ring twice" {
		t.Errorf("Notes = %q", stored.Notes)
	}
}

func TestUpdateRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.create(t, "plastic", "5")

	weight := decimal.RequireFromString("7.5")
	notes := "gate code 1234"
	updated, err := e.requests.UpdateRequest(ctx, e.donor, req.ID, models.RequestPatch{EstimatedWeight: &weight, Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateRequest() error: %v", err)
	}
	if !updated.EstimatedWeight.Equal(weight) || updated.Notes != notes {
		t.Errorf("updated = %+v", updated)
	}

	_, err = e.requests.UpdateRequest(ctx, e.collector, req.ID, models.RequestPatch{Notes: &notes})
	wantKind(t, err, apperrors.KindForbidden)

	inactive := "ewaste"
	_, err = e.requests.UpdateRequest(ctx, e.donor, req.ID, models.RequestPatch{CategoryID: &inactive})
	wantKind(t, err, apperrors.KindValidation)

	zero := decimal.Zero
	_, err = e.requests.UpdateRequest(ctx, e.donor, req.ID, models.RequestPatch{EstimatedWeight: &zero})
	wantKind(t, err, apperrors.KindValidation)

	stored, _ := e.store.Repositories().Requests.FindByID(ctx, req.ID)
	if stored.CategoryID != "plastic" || !stored.EstimatedWeight.Equal(weight) {
		t.Errorf("rejected patch changed the request: %+v", stored)
	}

	if _, err := e.collection.AcceptRequest(ctx, e.collector, req.ID); err != nil {
		t.Fatal(err)
	}
	_, err = e.requests.UpdateRequest(ctx, e.donor, req.ID, models.RequestPatch{Notes: &notes})
	wantKind(t, err, apperrors.KindInvalidState)

	_, err = e.requests.UpdateRequest(ctx, e.donor, uuid.NewString(), models.RequestPatch{Notes: &notes})
	wantKind(t, err, apperrors.KindNotFound)
}

func TestCancelRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	t.Run("pending", func(t *testing.T) {
		req := e.create(t, "plastic", "5")
		got, err := e.requests.CancelRequest(ctx, e.donor, req.ID)
		if err != nil {
			t.Fatalf("CancelRequest() error: %v", err)
		}
		if got.Status != models.RequestCancelled {
			t.Errorf("Status = %s, want CANCELLED", got.Status)
		}
		_, err = e.requests.CancelRequest(ctx, e.donor, req.ID)
		wantKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("accepted notifies collector", func(t *testing.T) {
		req := e.accepted(t, "plastic")
		if _, err := e.requests.CancelRequest(ctx, e.donor, req.ID); err != nil {
			t.Fatalf("CancelRequest() error: %v", err)
		}
		cancelled := e.notifier.ofKind(models.NotifyRequestCancelled)
		if len(cancelled) != 1 || cancelled[0].UserID != e.collector.UserID {
			t.Errorf("cancel notifications = %+v, want one to the collector", cancelled)
		}
		_, err := e.collection.CompleteRequest(ctx, e.collector, req.ID, CompleteInput{Code: testCode, ActualWeight: decimal.NewFromInt(1)})
		wantKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("completed", func(t *testing.T) {
		req := e.accepted(t, "plastic")
		if _, err := e.collection.CompleteRequest(ctx, e.collector, req.ID, CompleteInput{Code: testCode, ActualWeight: decimal.NewFromInt(1)}); err != nil {
			t.Fatal(err)
		}
		_, err := e.requests.CancelRequest(ctx, e.donor, req.ID)
		wantKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("not owner", func(t *testing.T) {
		req := e.create(t, "plastic", "5")
		_, err := e.requests.CancelRequest(ctx, e.collector, req.ID)
		wantKind(t, err, apperrors.KindForbidden)
	})
}

func TestGetRequest_Visibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	open := e.create(t, "plastic", "1")
	claimed := e.accepted(t, "plastic")

	details, err := e.requests.GetRequest(ctx, e.donor, claimed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if details.Collection == nil || details.Collection.VerificationCode != testCode {
		t.Error("donor should see the verification code")
	}

	details, err = e.requests.GetRequest(ctx, e.collector, claimed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if details.Collection == nil || details.Collection.VerificationCode != "" {
		t.Error("claiming collector must not see the code")
	}

	details, err = e.requests.GetRequest(ctx, e.admin, claimed.ID)
	if err != nil || details.Collection.VerificationCode != "" {
		t.Errorf("admin view = %+v, %v; want redacted", details, err)
	}

	_, err = e.requests.GetRequest(ctx, e.rival, claimed.ID)
	wantKind(t, err, apperrors.KindForbidden)

	if _, err := e.requests.GetRequest(ctx, e.rival, open.ID); err != nil {
		t.Errorf("collector viewing a pending request: %v", err)
	}

	_, err = e.requests.GetRequest(ctx, e.donor, uuid.NewString())
	wantKind(t, err, apperrors.KindNotFound)
}

func TestListAvailable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.create(t, "plastic", "1")
	e.create(t, "plastic", "2")
	e.accepted(t, "plastic")

	list, err := e.requests.ListAvailable(ctx, e.rival, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("available = %d, want 2", len(list))
	}
	for _, r := range list {
		if r.Status != models.RequestPending {
			t.Errorf("listed %s request", r.Status)
		}
	}

	_, err = e.requests.ListAvailable(ctx, e.donor, 1, 10)
	wantKind(t, err, apperrors.KindForbidden)
}
