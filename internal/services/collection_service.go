package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/metrics"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/ArowuTest/recyclepoints-backend/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure CollectionServiceImpl implements CollectionService
var _ CollectionService = (*CollectionServiceImpl)(nil)

// CollectionServiceImpl arbitrates claims and verifies handoffs
type CollectionServiceImpl struct {
	store    repositories.Store
	notifier Notifier

	// CodeGenerator produces verification codes.
	CodeGenerator func() (string, error)
}

// NewCollectionService creates a new CollectionServiceImpl
func NewCollectionService(store repositories.Store, notifier Notifier) *CollectionServiceImpl {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &CollectionServiceImpl{
		store:         store,
		notifier:      notifier,
		CodeGenerator: utils.GenerateVerificationCode,
	}
}

// AcceptRequest claims a PENDING request for the acting collector. Of any
// number of concurrent callers exactly one succeeds; the rest get
// InvalidState. The returned claim has its code redacted.
func (s *CollectionServiceImpl) AcceptRequest(ctx context.Context, actor models.Actor, requestID string) (*RequestDetails, error) {
	const op = "collection.accept"
	if actor.Role != models.RoleCollector {
		return nil, apperrors.Forbidden(op, "only collectors can accept requests")
	}

	code, err := s.CodeGenerator()
	if err != nil {
		metrics.ClaimAttempts.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, apperrors.Internal(op, err)
	}

	var req *models.DonationRequest
	claim := &models.Collection{
		DonationRequestID: requestID,
		CollectorID:       actor.UserID,
		VerificationCode:  code,
	}
	err = withTx(ctx, s.store, op, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		req, err = repos.Requests.FindByID(ctx, requestID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(op, "donation request %s not found", requestID)
		}
		if err != nil {
			return err
		}
		if !models.CanTransition(req.Status, models.RequestAccepted) {
			return apperrors.InvalidState(op, "request is not available")
		}

		ok, err := repos.Requests.CompareAndSetStatus(ctx, requestID,
			models.TransitionsInto(models.RequestAccepted), models.RequestAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidState(op, "request is not available")
		}

		if err := repos.Collections.Create(ctx, claim); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.InvalidState(op, "request is not available")
			}
			return err
		}
		req.Status = models.RequestAccepted
		return nil
	})
	if err != nil {
		switch apperrors.KindOf(err) {
		case apperrors.KindInvalidState:
			metrics.ClaimAttempts.WithLabelValues(metrics.OutcomeLost).Inc()
		case apperrors.KindInternal:
			metrics.ClaimAttempts.WithLabelValues(metrics.OutcomeError).Inc()
			slog.Error("Failed to accept donation request", "error", err, "requestId", requestID)
		default:
			metrics.ClaimAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		}
		return nil, err
	}
	metrics.ClaimAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	slog.Info("Donation request accepted", "requestId", requestID, "collectorId", actor.UserID)

	// The code goes to the donor only; the collector receives it at handoff.
	s.notifier.Notify(ctx, req.DonorID, models.NotifyRequestAccepted, map[string]interface{}{
		"requestId":        requestID,
		"collectorId":      actor.UserID,
		"verificationCode": code,
	})
	return &RequestDetails{Request: req, Collection: claim.Redacted()}, nil
}

// CompleteRequest verifies the handoff code and, in one transaction,
// completes the request, stamps the claim and credits the donor.
func (s *CollectionServiceImpl) CompleteRequest(ctx context.Context, actor models.Actor, requestID string, in CompleteInput) (*CompletionResult, error) {
	const op = "collection.complete"
	if actor.Role != models.RoleCollector {
		return nil, apperrors.Forbidden(op, "only collectors can complete requests")
	}

	var result CompletionResult
	err := withTx(ctx, s.store, op, func(ctx context.Context, repos *repositories.Repositories) error {
		req, err := repos.Requests.FindByID(ctx, requestID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(op, "donation request %s not found", requestID)
		}
		if err != nil {
			return err
		}
		if !models.CanTransition(req.Status, models.RequestCompleted) {
			return apperrors.InvalidState(op, "request is %s, only ACCEPTED requests can be completed", req.Status)
		}

		claim, err := repos.Collections.FindByRequestID(ctx, requestID)
		if err != nil {
			return err
		}
		if claim.CollectorID != actor.UserID {
			return apperrors.Forbidden(op, "request is claimed by another collector")
		}
		if subtle.ConstantTimeCompare([]byte(claim.VerificationCode), []byte(in.Code)) != 1 {
			return apperrors.Validation(op, "invalid verification code")
		}
		if err := checkWeight(op, "actual weight", in.ActualWeight); err != nil {
			return err
		}

		category, err := repos.Categories.FindByID(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		points, err := utils.CalculatePoints(in.ActualWeight, category.PointsPerKg)
		if err != nil {
			return apperrors.Validation(op, "cannot award points for %s kg of %s: %v", in.ActualWeight, category.ID, err)
		}

		ok, err := repos.Requests.MarkCompleted(ctx, requestID, in.ActualWeight)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidState(op, "request is no longer ACCEPTED")
		}

		now := time.Now().UTC()
		claim.CollectedAt = &now
		claim.VerificationNotes = in.Notes
		claim.VerificationImages = in.Images
		claim.PointsAwarded = &points
		ok, err = repos.Collections.MarkCollected(ctx, claim)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidState(op, "collection already completed")
		}

		tx, err := repos.Ledger.Credit(ctx, req.DonorID, points, "Recycling collection: "+category.Name, requestID)
		if err != nil {
			return err
		}

		weight := in.ActualWeight
		req.Status = models.RequestCompleted
		req.ActualWeight = &weight
		result = CompletionResult{Request: req, Collection: claim.Redacted(), Transaction: tx}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			metrics.Completions.WithLabelValues(metrics.OutcomeError).Inc()
			slog.Error("Failed to complete donation request", "error", err, "requestId", requestID)
		} else {
			metrics.Completions.WithLabelValues(metrics.OutcomeInvalid).Inc()
			slog.Warn("Completion rejected", "error", err, "requestId", requestID, "collectorId", actor.UserID)
		}
		return nil, err
	}

	points := result.Transaction.Amount
	metrics.Completions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.PointsCredited.Add(float64(points))
	slog.Info("Donation request completed",
		"requestId", requestID, "collectorId", actor.UserID, "donorId", result.Request.DonorID, "points", points)

	s.notifier.Notify(ctx, result.Request.DonorID, models.NotifyRequestCompleted, map[string]interface{}{
		"requestId":     requestID,
		"actualWeight":  in.ActualWeight.String(),
		"pointsAwarded": points,
		"balance":       result.Transaction.BalanceAfter,
	})
	return &result, nil
}

// ListMyCollections lists the claims held by the acting collector, with
// codes redacted.
func (s *CollectionServiceImpl) ListMyCollections(ctx context.Context, actor models.Actor, page, limit int) ([]*models.Collection, error) {
	const op = "collection.list_mine"
	if actor.Role != models.RoleCollector {
		return nil, apperrors.Forbidden(op, "only collectors hold collections")
	}
	list, err := s.store.Repositories().Collections.FindByCollector(ctx, actor.UserID, page, limit)
	if err != nil {
		return nil, typed(op, err)
	}
	redacted := make([]*models.Collection, len(list))
	for i, c := range list {
		redacted[i] = c.Redacted()
	}
	return redacted, nil
}
