package sqlite

import (
	"context"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/shopspring/decimal"
)

var (
	_ repositories.CategoryRepository = (*categoryRepository)(nil)
	_ repositories.RewardRepository   = (*rewardRepository)(nil)
)

type categoryRepository struct {
	q querier
}

// FindByID finds a waste category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id string) (*models.WasteCategory, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, name, points_per_kg, is_active FROM waste_categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err, "waste category "+id)
	}
	return c, nil
}

// Upsert inserts or replaces a category by ID.
func (r *categoryRepository) Upsert(ctx context.Context, c *models.WasteCategory) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO waste_categories (id, name, points_per_kg, is_active) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, points_per_kg = excluded.points_per_kg, is_active = excluded.is_active
	`, c.ID, c.Name, c.PointsPerKg.String(), boolToInt(c.IsActive))
	return err
}

// FindAll lists every category by name.
func (r *categoryRepository) FindAll(ctx context.Context) ([]*models.WasteCategory, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, points_per_kg, is_active FROM waste_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.WasteCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanCategory(s scanner) (*models.WasteCategory, error) {
	var c models.WasteCategory
	var rate string
	var active int
	if err := s.Scan(&c.ID, &c.Name, &rate, &active); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, err
	}
	c.PointsPerKg = d
	c.IsActive = active != 0
	return &c, nil
}

type rewardRepository struct {
	q querier
}

const rewardColumns = `id, name, description, points_cost, stock, is_active`

// FindByID finds a reward by ID
func (r *rewardRepository) FindByID(ctx context.Context, id string) (*models.Reward, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE id = ?`, id)
	rw, err := scanReward(row)
	if err != nil {
		return nil, notFound(err, "reward "+id)
	}
	return rw, nil
}

// DecrementStock takes one unit if the reward is active and in stock.
func (r *rewardRepository) DecrementStock(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE rewards SET stock = stock - 1 WHERE id = ? AND is_active = 1 AND stock > 0
	`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Upsert inserts or replaces a reward by ID.
func (r *rewardRepository) Upsert(ctx context.Context, rw *models.Reward) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO rewards (`+rewardColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, description = excluded.description, points_cost = excluded.points_cost,
			stock = excluded.stock, is_active = excluded.is_active
	`, rw.ID, rw.Name, rw.Description, rw.PointsCost, rw.Stock, boolToInt(rw.IsActive))
	return err
}

// FindAll lists every reward by name.
func (r *rewardRepository) FindAll(ctx context.Context) ([]*models.Reward, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+rewardColumns+` FROM rewards ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.Reward{}
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rw)
	}
	return result, rows.Err()
}

func scanReward(s scanner) (*models.Reward, error) {
	var rw models.Reward
	var active int
	if err := s.Scan(&rw.ID, &rw.Name, &rw.Description, &rw.PointsCost, &rw.Stock, &active); err != nil {
		return nil, err
	}
	rw.IsActive = active != 0
	return &rw, nil
}
