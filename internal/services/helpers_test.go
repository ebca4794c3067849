package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories/sqlite"
	"github.com/shopspring/decimal"
)

type notification struct {
	UserID  string
	Kind    models.NotificationKind
	Payload map[string]interface{}
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) Notify(_ context.Context, userID string, kind models.NotificationKind, payload map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{UserID: userID, Kind: kind, Payload: payload})
}

func (r *recordingNotifier) ofKind(kind models.NotificationKind) []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification
	for _, n := range r.sent {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

type env struct {
	store      *sqlite.DB
	notifier   *recordingNotifier
	requests   *RequestServiceImpl
	collection *CollectionServiceImpl
	redemption *RedemptionServiceImpl
	accounts   *AccountServiceImpl

	donor     models.Actor
	collector models.Actor
	rival     models.Actor
	admin     models.Actor
	addressID string
}

const testCode = "483920"

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "services.db"), sqlite.Options{TxTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close(context.Background()) })

	n := &recordingNotifier{}
	e := &env{
		store:      store,
		notifier:   n,
		requests:   NewRequestService(store, n),
		collection: NewCollectionService(store, n),
		redemption: NewRedemptionService(store, n),
		accounts:   NewAccountService(store),
	}
	e.collection.CodeGenerator = func() (string, error) { return testCode, nil }

	ctx := context.Background()
	repos := store.Repositories()
	mkUser := func(name string, role models.Role) models.Actor {
		u := &models.User{Name: name, Role: role}
		if err := repos.Users.Create(ctx, u); err != nil {
			t.Fatalf("Users.Create() error: %v", err)
		}
		return models.Actor{UserID: u.ID, Role: role}
	}
	e.donor = mkUser("Dana", models.RoleDonor)
	e.collector = mkUser("Cole", models.RoleCollector)
	e.rival = mkUser("Rita", models.RoleCollector)
	e.admin = mkUser("Ada", models.RoleAdmin)

	addr := &models.Address{UserID: e.donor.UserID, Line1: "12 Elm Road", City: "Lagos"}
	if err := repos.Addresses.Create(ctx, addr); err != nil {
		t.Fatal(err)
	}
	e.addressID = addr.ID

	for _, c := range []*models.WasteCategory{
		{ID: "plastic", Name: "Plastic", PointsPerKg: decimal.NewFromInt(10), IsActive: true},
		{ID: "glass", Name: "Glass", PointsPerKg: decimal.Zero, IsActive: true},
		{ID: "ewaste", Name: "E-waste", PointsPerKg: decimal.NewFromInt(50), IsActive: false},
	} {
		if err := repos.Categories.Upsert(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	for _, r := range []*models.Reward{
		{ID: "voucher", Name: "Grocery voucher", PointsCost: 30, Stock: 1, IsActive: true},
		{ID: "bag", Name: "Tote bag", PointsCost: 10, Stock: 100, IsActive: true},
		{ID: "retired", Name: "Retired mug", PointsCost: 1, Stock: 5, IsActive: false},
	} {
		if err := repos.Rewards.Upsert(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func (e *env) create(t *testing.T, category, weight string) *models.DonationRequest {
	t.Helper()
	req, err := e.requests.CreateRequest(context.Background(), e.donor, CreateRequestInput{
		CategoryID:      category,
		AddressID:       e.addressID,
		EstimatedWeight: decimal.RequireFromString(weight),
	})
	if err != nil {
		t.Fatalf("CreateRequest() error: %v", err)
	}
	return req
}

func (e *env) accepted(t *testing.T, category string) *models.DonationRequest {
	t.Helper()
	req := e.create(t, category, "5")
	if _, err := e.collection.AcceptRequest(context.Background(), e.collector, req.ID); err != nil {
		t.Fatalf("AcceptRequest() error: %v", err)
	}
	return req
}

func (e *env) credit(t *testing.T, userID string, amount int64) {
	t.Helper()
	err := e.store.WithTransaction(context.Background(), func(ctx context.Context, repos *repositories.Repositories) error {
		_, err := repos.Ledger.Credit(ctx, userID, amount, "test credit", "")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (e *env) points(t *testing.T, userID string) int64 {
	t.Helper()
	u, err := e.store.Repositories().Users.FindByID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	return u.Points
}

// assertLedgerBalanced checks that the user's balance equals the sum of the
// user's ledger amounts.
func (e *env) assertLedgerBalanced(t *testing.T, userID string) {
	t.Helper()
	sum, err := e.store.Repositories().Ledger.SumByUserID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if p := e.points(t, userID); p != sum {
		t.Errorf("points = %d, ledger sum = %d", p, sum)
	}
}

func wantKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want %s", kind)
	}
	if got := apperrors.KindOf(err); got != kind {
		t.Fatalf("error kind = %s (%v), want %s", got, err, kind)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error %T is not *apperrors.Error", err)
	}
}
