package services

import (
	"context"
	"sync"
	"testing"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRedeemReward(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.credit(t, e.donor.UserID, 50)

	result, err := e.redemption.RedeemReward(ctx, e.donor, "bag")
	if err != nil {
		t.Fatalf("RedeemReward() error: %v", err)
	}
	if result.Transaction.Type != models.TransactionRedeem || result.Transaction.Amount != -10 {
		t.Errorf("Transaction = %+v, want REDEEM -10", result.Transaction)
	}
	if result.Transaction.BalanceAfter != 40 {
		t.Errorf("BalanceAfter = %d, want 40", result.Transaction.BalanceAfter)
	}
	if result.Reward.Stock != 99 {
		t.Errorf("reward snapshot stock = %d, want 99", result.Reward.Stock)
	}
	if got := e.points(t, e.donor.UserID); got != 40 {
		t.Errorf("points = %d, want 40", got)
	}
	e.assertLedgerBalanced(t, e.donor.UserID)

	redeemed := e.notifier.ofKind(models.NotifyRewardRedeemed)
	if len(redeemed) != 1 || redeemed[0].UserID != e.donor.UserID {
		t.Errorf("redeem notifications = %+v", redeemed)
	}
}

func TestRedeemReward_InsufficientBalanceChangesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.credit(t, e.donor.UserID, 10)

	_, err := e.redemption.RedeemReward(ctx, e.donor, "voucher")
	wantKind(t, err, apperrors.KindInsufficientBalance)

	if got := e.points(t, e.donor.UserID); got != 10 {
		t.Errorf("points = %d, want 10", got)
	}
	rw, _ := e.store.Repositories().Rewards.FindByID(ctx, "voucher")
	if rw.Stock != 1 {
		t.Errorf("stock = %d, want 1", rw.Stock)
	}
	history, _ := e.store.Repositories().Ledger.FindByUserID(ctx, e.donor.UserID, 1, 10)
	if len(history) != 1 {
		t.Errorf("ledger entries = %d, want only the seed credit", len(history))
	}
}

func TestRedeemReward_Unavailable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.credit(t, e.donor.UserID, 100)

	_, err := e.redemption.RedeemReward(ctx, e.donor, "retired")
	wantKind(t, err, apperrors.KindUnavailable)

	_, err = e.redemption.RedeemReward(ctx, e.donor, uuid.NewString())
	wantKind(t, err, apperrors.KindNotFound)

	if _, err := e.redemption.RedeemReward(ctx, e.donor, "voucher"); err != nil {
		t.Fatal(err)
	}
	_, err = e.redemption.RedeemReward(ctx, e.donor, "voucher")
	wantKind(t, err, apperrors.KindUnavailable)
	if got := e.points(t, e.donor.UserID); got != 70 {
		t.Errorf("points = %d, want 70", got)
	}
}

func TestRedeemReward_ConcurrentLastUnit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	const n = 10
	users := make([]models.Actor, n)
	for i := range users {
		u := &models.User{Name: "donor", Role: models.RoleDonor}
		if err := e.store.Repositories().Users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
		users[i] = models.Actor{UserID: u.ID, Role: models.RoleDonor}
		e.credit(t, u.ID, 100)
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.redemption.RedeemReward(ctx, users[i], "voucher")
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if apperrors.KindOf(err) != apperrors.KindUnavailable {
			t.Errorf("redeem %d error = %v, want Unavailable", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
	rw, _ := e.store.Repositories().Rewards.FindByID(ctx, "voucher")
	if rw.Stock != 0 {
		t.Errorf("stock = %d, want 0", rw.Stock)
	}

	total := int64(0)
	for _, u := range users {
		total += e.points(t, u.UserID)
		e.assertLedgerBalanced(t, u.UserID)
	}
	if total != n*100-30 {
		t.Errorf("total points = %d, want %d", total, n*100-30)
	}
}

func TestRedeemReward_ConcurrentSameUserNeverOverdraws(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.credit(t, e.donor.UserID, 35)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.redemption.RedeemReward(ctx, e.donor, "bag")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if apperrors.KindOf(err) != apperrors.KindInsufficientBalance {
			t.Errorf("error = %v, want InsufficientBalance", err)
		}
	}
	if wins != 3 {
		t.Errorf("wins = %d, want 3", wins)
	}
	if got := e.points(t, e.donor.UserID); got != 5 {
		t.Errorf("points = %d, want 5", got)
	}
	e.assertLedgerBalanced(t, e.donor.UserID)
}

func TestLedgerBalancedAcrossLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, w := range []string{"1.25", "3", "0.5"} {
		req := e.accepted(t, "plastic")
		if _, err := e.collection.CompleteRequest(ctx, e.collector, req.ID, CompleteInput{
			Code:         testCode,
			ActualWeight: decimal.RequireFromString(w),
		}); err != nil {
			t.Fatal(err)
		}
	}
	// 12 + 30 + 5
	if got := e.points(t, e.donor.UserID); got != 47 {
		t.Fatalf("points = %d, want 47", got)
	}
	if _, err := e.redemption.RedeemReward(ctx, e.donor, "voucher"); err != nil {
		t.Fatal(err)
	}
	e.redemption.RedeemReward(ctx, e.donor, "voucher")
	e.assertLedgerBalanced(t, e.donor.UserID)

	balance, err := e.accounts.GetBalance(ctx, e.donor)
	if err != nil {
		t.Fatal(err)
	}
	if balance.Points != 17 {
		t.Errorf("balance = %d, want 17", balance.Points)
	}
	history, _ := e.accounts.ListTransactions(ctx, e.donor, 1, 50)
	if len(history) != 4 {
		t.Errorf("transactions = %d, want 4", len(history))
	}
}
