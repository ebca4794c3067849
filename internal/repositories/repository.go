package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/shopspring/decimal"
)

// Sentinel errors returned by every backend. Driver-specific errors are
// translated at the repository boundary.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientFunds = errors.New("insufficient points balance")
)

// Store is the unit-of-work boundary. Every multi-entity mutation runs inside
// WithTransaction; the Repositories handed to fn are bound to that
// transaction and must not be used after fn returns.
type Store interface {
	// WithTransaction runs fn atomically. If fn returns an error nothing it
	// wrote is persisted and the error is returned unchanged.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error

	// Repositories returns repositories for single reads and writes outside
	// a transaction.
	Repositories() *Repositories

	// Migrate creates tables/collections and indexes.
	Migrate(ctx context.Context) error

	Close(ctx context.Context) error
}

// Repositories bundles the per-entity repositories of one backend.
type Repositories struct {
	Users         UserRepository
	Ledger        LedgerRepository
	Requests      DonationRequestRepository
	Collections   CollectionRepository
	Categories    CategoryRepository
	Rewards       RewardRepository
	Addresses     AddressRepository
	Notifications NotificationRepository
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// LedgerRepository owns user balances and the append-only transaction log.
// Credit and Debit are only called from inside Store.WithTransaction.
type LedgerRepository interface {
	// Credit adds amount (>= 0) to the user's balance and appends an EARN
	// entry.
	Credit(ctx context.Context, userID string, amount int64, description, relatedID string) (*models.Transaction, error)

	// Debit subtracts amount from the user's balance, conditioned on
	// balance >= amount in the same statement, and appends a REDEEM entry
	// with a negative amount. Returns ErrInsufficientFunds when the
	// condition fails.
	Debit(ctx context.Context, userID string, amount int64, description, relatedID string) (*models.Transaction, error)

	FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Transaction, error)
	SumByUserID(ctx context.Context, userID string) (int64, error)
}

// DonationRequestRepository defines the interface for donation request operations.
// Every state change is a conditional write; false means the precondition
// did not hold when the write executed.
type DonationRequestRepository interface {
	Create(ctx context.Context, req *models.DonationRequest) error
	FindByID(ctx context.Context, id string) (*models.DonationRequest, error)

	// UpdateDetails writes the donor-editable fields, only while PENDING.
	UpdateDetails(ctx context.Context, req *models.DonationRequest) (bool, error)

	// CompareAndSetStatus moves the request to `to` if its current status is
	// one of `from`.
	CompareAndSetStatus(ctx context.Context, id string, from []models.RequestStatus, to models.RequestStatus) (bool, error)

	// MarkCompleted sets COMPLETED and the actual weight, only while ACCEPTED.
	MarkCompleted(ctx context.Context, id string, actualWeight decimal.Decimal) (bool, error)

	FindByDonor(ctx context.Context, donorID string, page, limit int) ([]*models.DonationRequest, error)
	FindByStatus(ctx context.Context, status models.RequestStatus, page, limit int) ([]*models.DonationRequest, error)
}

// CollectionRepository defines the interface for claim records.
type CollectionRepository interface {
	// Create inserts the claim; ErrDuplicate if the request already has one.
	Create(ctx context.Context, c *models.Collection) error
	FindByRequestID(ctx context.Context, requestID string) (*models.Collection, error)

	// MarkCollected stamps the completion fields, only if not yet collected.
	MarkCollected(ctx context.Context, c *models.Collection) (bool, error)

	FindByCollector(ctx context.Context, collectorID string, page, limit int) ([]*models.Collection, error)
}

// CategoryRepository is the catalog lookup for waste categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (*models.WasteCategory, error)
	Upsert(ctx context.Context, c *models.WasteCategory) error
	FindAll(ctx context.Context) ([]*models.WasteCategory, error)
}

// RewardRepository is the catalog lookup for rewards plus the guarded stock
// decrement used by redemption.
type RewardRepository interface {
	FindByID(ctx context.Context, id string) (*models.Reward, error)

	// DecrementStock takes one unit, only if the reward is active and
	// stock > 0 at write time.
	DecrementStock(ctx context.Context, id string) (bool, error)

	Upsert(ctx context.Context, r *models.Reward) error
	FindAll(ctx context.Context) ([]*models.Reward, error)
}

// AddressRepository answers address ownership.
type AddressRepository interface {
	Create(ctx context.Context, a *models.Address) error
	BelongsTo(ctx context.Context, addressID, userID string) (bool, error)
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	UpdateStatus(ctx context.Context, id, status, messageID, errMsg string) error
	FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Notification, error)
}

// MaxOffset caps how far into a listing a page can reach.
const MaxOffset = 1 << 30

// Paginate normalizes page/limit into an offset and limit. Pages past
// MaxOffset are clamped to the last reachable one.
func Paginate(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page-1 > MaxOffset/limit {
		page = MaxOffset/limit + 1
	}
	return (page - 1) * limit, limit
}
