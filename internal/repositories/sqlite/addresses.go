package sqlite

import (
	"context"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
)

var _ repositories.AddressRepository = (*addressRepository)(nil)

type addressRepository struct {
	q querier
}

// Create inserts a new address
func (r *addressRepository) Create(ctx context.Context, a *models.Address) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO addresses (id, user_id, label, line1, city, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.Label, a.Line1, a.City, formatTime(a.CreatedAt))
	if isUniqueViolation(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// BelongsTo reports whether the address exists and is owned by userID.
func (r *addressRepository) BelongsTo(ctx context.Context, addressID, userID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM addresses WHERE id = ? AND user_id = ?
	`, addressID, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
