package sqlite

import (
	"context"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
)

var _ repositories.UserRepository = (*userRepository)(nil)

type userRepository struct {
	q querier
}

// Create inserts a new user with a zero balance. Points only arrive
// through the ledger.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Points = 0
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, name, role, points, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, user.ID, user.Name, string(user.Role), formatTime(now), formatTime(now))
	if isUniqueViolation(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	var role, created, updated string
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, role, points, created_at, updated_at FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &role, &u.Points, &created, &updated)
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	u.Role = models.Role(role)
	u.CreatedAt = parseTime(created)
	u.UpdatedAt = parseTime(updated)
	return &u, nil
}
