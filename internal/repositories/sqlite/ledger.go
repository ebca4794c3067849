package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
)

var _ repositories.LedgerRepository = (*ledgerRepository)(nil)

type ledgerRepository struct {
	q querier
}

// Credit increments the balance and appends an EARN entry.
func (r *ledgerRepository) Credit(ctx context.Context, userID string, amount int64, description, relatedID string) (*models.Transaction, error) {
	if amount < 0 {
		return nil, fmt.Errorf("credit amount must be non-negative, got %d", amount)
	}
	now := time.Now().UTC()

	var balance int64
	err := r.q.QueryRowContext(ctx, `
		UPDATE users SET points = points + ?, updated_at = ? WHERE id = ? RETURNING points
	`, amount, formatTime(now), userID).Scan(&balance)
	if err != nil {
		return nil, notFound(err, "user "+userID)
	}
	return r.append(ctx, userID, models.TransactionEarn, amount, balance, description, relatedID, now)
}

// Debit decrements the balance only if it covers amount. The balance check
// and the write are one statement.
func (r *ledgerRepository) Debit(ctx context.Context, userID string, amount int64, description, relatedID string) (*models.Transaction, error) {
	if amount < 0 {
		return nil, fmt.Errorf("debit amount must be non-negative, got %d", amount)
	}
	now := time.Now().UTC()

	var balance int64
	err := r.q.QueryRowContext(ctx, `
		UPDATE users SET points = points - ?, updated_at = ?
		WHERE id = ? AND points >= ?
		RETURNING points
	`, amount, formatTime(now), userID, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		var exists int
		if err := r.q.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists); err != nil {
			return nil, notFound(err, "user "+userID)
		}
		return nil, repositories.ErrInsufficientFunds
	}
	if err != nil {
		return nil, err
	}
	return r.append(ctx, userID, models.TransactionRedeem, -amount, balance, description, relatedID, now)
}

func (r *ledgerRepository) append(ctx context.Context, userID string, typ models.TransactionType, amount, balance int64, description, relatedID string, at time.Time) (*models.Transaction, error) {
	tx := &models.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         typ,
		Amount:       amount,
		BalanceAfter: balance,
		Description:  description,
		RelatedID:    relatedID,
		CreatedAt:    at,
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, balance_after, description, related_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, tx.UserID, string(tx.Type), tx.Amount, tx.BalanceAfter, tx.Description, tx.RelatedID, formatTime(at))
	if err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}
	return tx, nil
}

// FindByUserID returns a user's ledger entries, newest first.
func (r *ledgerRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Transaction, error) {
	offset, size := repositories.Paginate(page, limit)
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, type, amount, balance_after, description, related_id, created_at
		FROM transactions WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?
	`, userID, size, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var typ, created string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.BalanceAfter, &t.Description, &t.RelatedID, &created); err != nil {
			return nil, err
		}
		t.Type = models.TransactionType(typ)
		t.CreatedAt = parseTime(created)
		result = append(result, &t)
	}
	return result, rows.Err()
}

// SumByUserID returns the sum of a user's ledger amounts.
func (r *ledgerRepository) SumByUserID(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ?
	`, userID).Scan(&sum)
	return sum, err
}
