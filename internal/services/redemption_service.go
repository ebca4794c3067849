package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/recyclepoints-backend/internal/apperrors"
	"github.com/ArowuTest/recyclepoints-backend/internal/metrics"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RedemptionServiceImpl implements RedemptionService
var _ RedemptionService = (*RedemptionServiceImpl)(nil)

// RedemptionServiceImpl exchanges points for reward stock
type RedemptionServiceImpl struct {
	store    repositories.Store
	notifier Notifier
}

// NewRedemptionService creates a new RedemptionServiceImpl
func NewRedemptionService(store repositories.Store, notifier Notifier) *RedemptionServiceImpl {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &RedemptionServiceImpl{store: store, notifier: notifier}
}

// RedeemReward debits the reward's cost from the actor and takes one unit
// of stock in one transaction. Both writes are conditioned on the live
// balance and stock, so concurrent redemptions never oversell or overdraw.
func (s *RedemptionServiceImpl) RedeemReward(ctx context.Context, actor models.Actor, rewardID string) (*RedemptionResult, error) {
	const op = "reward.redeem"
	var result RedemptionResult
	err := withTx(ctx, s.store, op, func(ctx context.Context, repos *repositories.Repositories) error {
		reward, err := repos.Rewards.FindByID(ctx, rewardID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(op, "reward %s not found", rewardID)
		}
		if err != nil {
			return err
		}
		if !reward.Available() {
			return apperrors.Unavailable(op, "reward is unavailable")
		}

		user, err := repos.Users.FindByID(ctx, actor.UserID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(op, "user %s not found", actor.UserID)
		}
		if err != nil {
			return err
		}
		if user.Points < reward.PointsCost {
			return apperrors.InsufficientBalance(op, "balance %d is below cost %d", user.Points, reward.PointsCost)
		}

		ok, err := repos.Rewards.DecrementStock(ctx, rewardID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Unavailable(op, "reward is unavailable")
		}

		tx, err := repos.Ledger.Debit(ctx, actor.UserID, reward.PointsCost, "Reward redemption: "+reward.Name, rewardID)
		if errors.Is(err, repositories.ErrInsufficientFunds) {
			return apperrors.InsufficientBalance(op, "balance is below cost %d", reward.PointsCost)
		}
		if err != nil {
			return err
		}

		snapshot, err := repos.Rewards.FindByID(ctx, rewardID)
		if err != nil {
			return err
		}
		result = RedemptionResult{Transaction: tx, Reward: snapshot}
		return nil
	})
	if err != nil {
		switch apperrors.KindOf(err) {
		case apperrors.KindInternal:
			metrics.Redemptions.WithLabelValues(metrics.OutcomeError).Inc()
			slog.Error("Failed to redeem reward", "error", err, "rewardId", rewardID, "userId", actor.UserID)
		case apperrors.KindUnavailable:
			metrics.Redemptions.WithLabelValues("unavailable").Inc()
		case apperrors.KindInsufficientBalance:
			metrics.Redemptions.WithLabelValues("insufficient_balance").Inc()
		default:
			metrics.Redemptions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		}
		return nil, err
	}

	metrics.Redemptions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.PointsRedeemed.Add(float64(-result.Transaction.Amount))
	slog.Info("Reward redeemed", "rewardId", rewardID, "userId", actor.UserID,
		"cost", -result.Transaction.Amount, "balance", result.Transaction.BalanceAfter)

	s.notifier.Notify(ctx, actor.UserID, models.NotifyRewardRedeemed, map[string]interface{}{
		"rewardId":      rewardID,
		"rewardName":    result.Reward.Name,
		"pointsSpent":   -result.Transaction.Amount,
		"balance":       result.Transaction.BalanceAfter,
		"transactionId": result.Transaction.ID,
	})
	return &result, nil
}
