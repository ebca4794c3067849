package services

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/metrics"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/shopspring/decimal"
)

// RequestService defines the donor side of the donation request lifecycle
type RequestService interface {
	CreateRequest(ctx context.Context, actor models.Actor, in CreateRequestInput) (*models.DonationRequest, error)
	UpdateRequest(ctx context.Context, actor models.Actor, id string, patch models.RequestPatch) (*models.DonationRequest, error)
	CancelRequest(ctx context.Context, actor models.Actor, id string) (*models.DonationRequest, error)
	GetRequest(ctx context.Context, actor models.Actor, id string) (*RequestDetails, error)
	ListAvailable(ctx context.Context, actor models.Actor, page, limit int) ([]*models.DonationRequest, error)
	ListMine(ctx context.Context, actor models.Actor, page, limit int) ([]*models.DonationRequest, error)
}

// CollectionService defines claim arbitration and code-verified completion
type CollectionService interface {
	AcceptRequest(ctx context.Context, actor models.Actor, requestID string) (*RequestDetails, error)
	CompleteRequest(ctx context.Context, actor models.Actor, requestID string, in CompleteInput) (*CompletionResult, error)
	ListMyCollections(ctx context.Context, actor models.Actor, page, limit int) ([]*models.Collection, error)
}

// RedemptionService defines the points-for-reward exchange
type RedemptionService interface {
	RedeemReward(ctx context.Context, actor models.Actor, rewardID string) (*RedemptionResult, error)
}

// AccountService defines read access to a user's balance, ledger and
// notifications, plus the catalog listings
type AccountService interface {
	GetBalance(ctx context.Context, actor models.Actor) (*Balance, error)
	ListTransactions(ctx context.Context, actor models.Actor, page, limit int) ([]*models.Transaction, error)
	ListNotifications(ctx context.Context, actor models.Actor, page, limit int) ([]*models.Notification, error)
	ListCategories(ctx context.Context) ([]*models.WasteCategory, error)
	ListRewards(ctx context.Context) ([]*models.Reward, error)
}

// Notifier is the post-commit notification sink. Notify never blocks and
// never fails from the caller's point of view.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind models.NotificationKind, payload map[string]interface{})
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

// Notify implements Notifier
func (NoopNotifier) Notify(context.Context, string, models.NotificationKind, map[string]interface{}) {}

// CreateRequestInput is the payload of CreateRequest
type CreateRequestInput struct {
	CategoryID      string          `json:"categoryId"`
	AddressID       string          `json:"addressId"`
	EstimatedWeight decimal.Decimal `json:"estimatedWeight"`
	Notes           string          `json:"notes,omitempty"`
	PreferredDate   *time.Time      `json:"preferredDate,omitempty"`
}

// CompleteInput is the payload of CompleteRequest
type CompleteInput struct {
	Code         string          `json:"code"`
	ActualWeight decimal.Decimal `json:"actualWeight"`
	Notes        string          `json:"notes,omitempty"`
	Images       []string        `json:"images,omitempty"`
}

// RequestDetails is a request together with its claim, if any.
type RequestDetails struct {
	Request    *models.DonationRequest `json:"request"`
	Collection *models.Collection      `json:"collection,omitempty"`
}

// CompletionResult is what a successful CompleteRequest produced.
type CompletionResult struct {
	Request     *models.DonationRequest `json:"request"`
	Collection  *models.Collection      `json:"collection"`
	Transaction *models.Transaction     `json:"transaction"`
}

// RedemptionResult is the ledger entry and the reward after the stock
// decrement.
type RedemptionResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Reward      *models.Reward      `json:"reward"`
}

// Balance is a user's current points.
type Balance struct {
	UserID string `json:"userId"`
	Points int64  `json:"points"`
}

// withTx runs fn in one store transaction, records its duration under op,
// and tags any untyped failure as internal.
func withTx(ctx context.Context, store repositories.Store, op string, fn func(ctx context.Context, repos *repositories.Repositories) error) error {
	start := time.Now()
	err := store.WithTransaction(ctx, fn)
	metrics.ObserveTransaction(op, start)
	return typed(op, err)
}

// typed leaves *apperrors.Error values alone and wraps anything else as
// internal, except a missing record, which becomes NotFound.
func typed(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return &apperrors.Error{Kind: apperrors.KindNotFound, Op: op, Message: err.Error()}
	}
	return apperrors.Internal(op, err)
}
