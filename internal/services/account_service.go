package services

import (
	"context"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
)

// Compile-time check to ensure AccountServiceImpl implements AccountService
var _ AccountService = (*AccountServiceImpl)(nil)

// AccountServiceImpl serves read-only account and catalog views
type AccountServiceImpl struct {
	repos *repositories.Repositories
}

// NewAccountService creates a new AccountServiceImpl
func NewAccountService(store repositories.Store) *AccountServiceImpl {
	return &AccountServiceImpl{repos: store.Repositories()}
}

// GetBalance returns the actor's current points
func (s *AccountServiceImpl) GetBalance(ctx context.Context, actor models.Actor) (*Balance, error) {
	user, err := s.repos.Users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, typed("account.balance", err)
	}
	return &Balance{UserID: user.ID, Points: user.Points}, nil
}

// ListTransactions returns the actor's ledger, newest first
func (s *AccountServiceImpl) ListTransactions(ctx context.Context, actor models.Actor, page, limit int) ([]*models.Transaction, error) {
	list, err := s.repos.Ledger.FindByUserID(ctx, actor.UserID, page, limit)
	return list, typed("account.transactions", err)
}

// ListNotifications returns the actor's notifications, newest first
func (s *AccountServiceImpl) ListNotifications(ctx context.Context, actor models.Actor, page, limit int) ([]*models.Notification, error) {
	list, err := s.repos.Notifications.FindByUserID(ctx, actor.UserID, page, limit)
	return list, typed("account.notifications", err)
}

// ListCategories returns the waste category catalog
func (s *AccountServiceImpl) ListCategories(ctx context.Context) ([]*models.WasteCategory, error) {
	list, err := s.repos.Categories.FindAll(ctx)
	return list, typed("catalog.categories", err)
}

// ListRewards returns the reward catalog
func (s *AccountServiceImpl) ListRewards(ctx context.Context) ([]*models.Reward, error) {
	list, err := s.repos.Rewards.FindAll(ctx)
	return list, typed("catalog.rewards", err)
}
