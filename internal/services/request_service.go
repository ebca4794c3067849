package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RequestServiceImpl implements RequestService
var _ RequestService = (*RequestServiceImpl)(nil)

// RequestServiceImpl handles the donor-driven part of the request lifecycle
type RequestServiceImpl struct {
	store    repositories.Store
	notifier Notifier
}

// NewRequestService creates a new RequestServiceImpl
func NewRequestService(store repositories.Store, notifier Notifier) *RequestServiceImpl {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &RequestServiceImpl{store: store, notifier: notifier}
}

// CreateRequest records a new PENDING donation request for the actor.
func (s *RequestServiceImpl) CreateRequest(ctx context.Context, actor models.Actor, in CreateRequestInput) (*models.DonationRequest, error) {
	const op = "request.create"
	if actor.Role != models.RoleDonor {
		return nil, apperrors.Forbidden(op, "only donors can create donation requests")
	}

	req := &models.DonationRequest{
		DonorID:         actor.UserID,
		CategoryID:      in.CategoryID,
		AddressID:       in.AddressID,
		EstimatedWeight: in.EstimatedWeight,
		Status:          models.RequestPending,
		Notes:           in.Notes,
		PreferredDate:   in.PreferredDate,
	}
	err := withTx(ctx, s.store, op, func(ctx context.Context, repos *repositories.Repositories) error {
		if err := validateDetails(ctx, op, repos, req); err != nil {
			return err
		}
		return repos.Requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Donation request created", "requestId", req.ID, "donorId", req.DonorID, "categoryId", req.CategoryID)
	return req, nil
}

// UpdateRequest applies patch to a PENDING request owned by the actor.
func (s *RequestServiceImpl) UpdateRequest(ctx context.Context, actor models.Actor, id string, patch models.RequestPatch) (*models.DonationRequest, error) {
	const op = "request.update"
	var req *models.DonationRequest
	err := withTx(ctx, s.store, op, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		if req, err = findOwned(ctx, op, repos, actor, id); err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return apperrors.InvalidState(op, "request is %s, only PENDING requests can be updated", req.Status)
		}
		patch.Apply(req)
		if err := validateDetails(ctx, op, repos, req); err != nil {
			return err
		}
		ok, err := repos.Requests.UpdateDetails(ctx, req)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidState(op, "request is no longer PENDING")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Donation request updated", "requestId", req.ID)
	return req, nil
}

// CancelRequest cancels a non-terminal request owned by the actor. A
// collector holding the claim is notified after commit.
func (s *RequestServiceImpl) CancelRequest(ctx context.Context, actor models.Actor, id string) (*models.DonationRequest, error) {
	const op = "request.cancel"
	var req *models.DonationRequest
	var collectorID string
	err := withTx(ctx, s.store, op, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		if req, err = findOwned(ctx, op, repos, actor, id); err != nil {
			return err
		}
		if !models.CanTransition(req.Status, models.RequestCancelled) {
			return apperrors.InvalidState(op, "request is already %s", req.Status)
		}
		from := req.Status
		ok, err := repos.Requests.CompareAndSetStatus(ctx, id,
			models.TransitionsInto(models.RequestCancelled), models.RequestCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidState(op, "request can no longer be cancelled")
		}
		req.Status = models.RequestCancelled

		if from == models.RequestAccepted {
			c, err := repos.Collections.FindByRequestID(ctx, id)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
			if c != nil {
				collectorID = c.CollectorID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Donation request cancelled", "requestId", id, "donorId", actor.UserID)
	if collectorID != "" {
		s.notifier.Notify(ctx, collectorID, models.NotifyRequestCancelled, map[string]interface{}{
			"requestId": id,
		})
	}
	return req, nil
}

// GetRequest returns a request and its claim. The owning donor sees the
// verification code; collectors and admins get it redacted.
func (s *RequestServiceImpl) GetRequest(ctx context.Context, actor models.Actor, id string) (*RequestDetails, error) {
	const op = "request.get"
	repos := s.store.Repositories()

	req, err := repos.Requests.FindByID(ctx, id)
	if err != nil {
		return nil, typed(op, err)
	}
	c, err := repos.Collections.FindByRequestID(ctx, id)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, typed(op, err)
	}

	details := &RequestDetails{Request: req}
	switch {
	case actor.UserID == req.DonorID:
		details.Collection = c
	case actor.Role == models.RoleAdmin:
		if c != nil {
			details.Collection = c.Redacted()
		}
	case actor.Role == models.RoleCollector && c != nil && c.CollectorID == actor.UserID:
		details.Collection = c.Redacted()
	case actor.Role == models.RoleCollector && req.Status == models.RequestPending:
		// open for claiming
	default:
		return nil, apperrors.Forbidden(op, "not allowed to view this request")
	}
	return details, nil
}

// ListAvailable lists PENDING requests, newest first.
func (s *RequestServiceImpl) ListAvailable(ctx context.Context, actor models.Actor, page, limit int) ([]*models.DonationRequest, error) {
	const op = "request.list_available"
	if actor.Role != models.RoleCollector && actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden(op, "only collectors can browse available requests")
	}
	list, err := s.store.Repositories().Requests.FindByStatus(ctx, models.RequestPending, page, limit)
	return list, typed(op, err)
}

// ListMine lists the actor's own requests, newest first.
func (s *RequestServiceImpl) ListMine(ctx context.Context, actor models.Actor, page, limit int) ([]*models.DonationRequest, error) {
	list, err := s.store.Repositories().Requests.FindByDonor(ctx, actor.UserID, page, limit)
	return list, typed("request.list_mine", err)
}

func findOwned(ctx context.Context, op string, repos *repositories.Repositories, actor models.Actor, id string) (*models.DonationRequest, error) {
	req, err := repos.Requests.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound(op, "donation request %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if req.DonorID != actor.UserID {
		return nil, apperrors.Forbidden(op, "request belongs to another donor")
	}
	return req, nil
}

// validateDetails checks weight, category and address of a request about
// to be written.
func validateDetails(ctx context.Context, op string, repos *repositories.Repositories, req *models.DonationRequest) error {
	if err := checkWeight(op, "estimated weight", req.EstimatedWeight); err != nil {
		return err
	}

	category, err := repos.Categories.FindByID(ctx, req.CategoryID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(op, "waste category %s not found", req.CategoryID)
	}
	if err != nil {
		return err
	}
	if !category.IsActive {
		return apperrors.Validation(op, "waste category %s is not active", category.ID)
	}

	owned, err := repos.Addresses.BelongsTo(ctx, req.AddressID, req.DonorID)
	if err != nil {
		return err
	}
	if !owned {
		return apperrors.NotFound(op, "address %s not found", req.AddressID)
	}
	return nil
}

// checkWeight requires 0 < w <= models.MaxWeightKg.
func checkWeight(op, field string, w decimal.Decimal) error {
	if !w.GreaterThan(decimal.Zero) {
		return apperrors.Validation(op, "%s must be greater than zero", field)
	}
	if w.GreaterThan(models.MaxWeightKg) {
		return apperrors.Validation(op, "%s must not exceed %s kg", field, models.MaxWeightKg)
	}
	return nil
}
