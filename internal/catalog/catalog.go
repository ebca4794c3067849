// Package catalog loads seed data (waste categories, rewards, users and
// addresses) from a TOML file and writes it through a repositories.Store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"
)

// File is the on-disk seed layout.
//
//	[[categories]]
//	id = "plastic"
//	name = "Plastic"
//	points_per_kg = "10"
//	active = true
type File struct {
	Categories []Category `toml:"categories"`
	Rewards    []Reward   `toml:"rewards"`
	Users      []User     `toml:"users"`
	Addresses  []Address  `toml:"addresses"`
}

type Category struct {
	ID          string  `toml:"id"`
	Name        string  `toml:"name"`
	PointsPerKg Decimal `toml:"points_per_kg"`
	Active      *bool   `toml:"active"`
}

type Reward struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	PointsCost  int64  `toml:"points_cost"`
	Stock       int64  `toml:"stock"`
	Active      *bool  `toml:"active"`
}

// User entries are created once; existing IDs are left alone. Balances
// always start at zero.
type User struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	Role string `toml:"role"`
}

type Address struct {
	ID     string `toml:"id"`
	UserID string `toml:"user_id"`
	Label  string `toml:"label"`
	Line1  string `toml:"line1"`
	City   string `toml:"city"`
}

// Decimal accepts TOML strings, integers and floats. Strings are preferred
// since floats lose precision before they reach us.
type Decimal struct {
	decimal.Decimal
}

// UnmarshalTOML implements toml.Unmarshaler
func (d *Decimal) UnmarshalTOML(v interface{}) error {
	switch x := v.(type) {
	case string:
		parsed, err := decimal.NewFromString(x)
		if err != nil {
			return fmt.Errorf("invalid decimal %q: %w", x, err)
		}
		d.Decimal = parsed
	case int64:
		d.Decimal = decimal.NewFromInt(x)
	case float64:
		d.Decimal = decimal.NewFromFloat(x)
	default:
		return fmt.Errorf("invalid decimal value of type %T", v)
	}
	return nil
}

// Summary counts what Apply wrote.
type Summary struct {
	Categories int
	Rewards    int
	Users      int
	Addresses  int
	Skipped    int
}

// Load decodes and validates a seed file.
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// Validate checks every entry before anything is written.
func (f *File) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, c := range f.Categories {
		switch {
		case c.ID == "" || c.Name == "":
			errs = append(errs, fmt.Errorf("categories[%d]: id and name are required", i))
		case c.PointsPerKg.IsNegative():
			errs = append(errs, fmt.Errorf("categories[%d] %s: points_per_kg must not be negative", i, c.ID))
		case seen["c:"+c.ID]:
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate id %s", i, c.ID))
		}
		seen["c:"+c.ID] = true
	}
	for i, r := range f.Rewards {
		switch {
		case r.ID == "" || r.Name == "":
			errs = append(errs, fmt.Errorf("rewards[%d]: id and name are required", i))
		case r.PointsCost <= 0:
			errs = append(errs, fmt.Errorf("rewards[%d] %s: points_cost must be positive", i, r.ID))
		case r.Stock < 0:
			errs = append(errs, fmt.Errorf("rewards[%d] %s: stock must not be negative", i, r.ID))
		case seen["r:"+r.ID]:
			errs = append(errs, fmt.Errorf("rewards[%d]: duplicate id %s", i, r.ID))
		}
		seen["r:"+r.ID] = true
	}
	for i, u := range f.Users {
		if u.ID == "" || u.Name == "" {
			errs = append(errs, fmt.Errorf("users[%d]: id and name are required", i))
		} else if !models.Role(strings.ToUpper(u.Role)).Valid() {
			errs = append(errs, fmt.Errorf("users[%d] %s: unknown role %q", i, u.ID, u.Role))
		}
	}
	for i, a := range f.Addresses {
		if a.ID == "" || a.UserID == "" || a.Line1 == "" {
			errs = append(errs, fmt.Errorf("addresses[%d]: id, user_id and line1 are required", i))
		}
	}
	return errors.Join(errs...)
}

// Apply writes the seed. Categories and rewards are upserted in one
// transaction; users and addresses are then created one by one, skipping
// those that already exist, so a rerun is harmless.
func (f *File) Apply(ctx context.Context, store repositories.Store) (*Summary, error) {
	var sum Summary
	err := store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		for _, c := range f.Categories {
			err := repos.Categories.Upsert(ctx, &models.WasteCategory{
				ID:          c.ID,
				Name:        c.Name,
				PointsPerKg: c.PointsPerKg.Decimal,
				IsActive:    active(c.Active),
			})
			if err != nil {
				return fmt.Errorf("upsert category %s: %w", c.ID, err)
			}
		}
		for _, r := range f.Rewards {
			err := repos.Rewards.Upsert(ctx, &models.Reward{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Description,
				PointsCost:  r.PointsCost,
				Stock:       r.Stock,
				IsActive:    active(r.Active),
			})
			if err != nil {
				return fmt.Errorf("upsert reward %s: %w", r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sum.Categories, sum.Rewards = len(f.Categories), len(f.Rewards)

	// A duplicate-key failure would abort a mongo transaction, so these run
	// outside one.
	repos := store.Repositories()
	for _, u := range f.Users {
		err := repos.Users.Create(ctx, &models.User{ID: u.ID, Name: u.Name, Role: models.Role(strings.ToUpper(u.Role))})
		if errors.Is(err, repositories.ErrDuplicate) {
			sum.Skipped++
			continue
		}
		if err != nil {
			return &sum, fmt.Errorf("create user %s: %w", u.ID, err)
		}
		sum.Users++
	}
	for _, a := range f.Addresses {
		err := repos.Addresses.Create(ctx, &models.Address{ID: a.ID, UserID: a.UserID, Label: a.Label, Line1: a.Line1, City: a.City})
		if errors.Is(err, repositories.ErrDuplicate) {
			sum.Skipped++
			continue
		}
		if err != nil {
			return &sum, fmt.Errorf("create address %s: %w", a.ID, err)
		}
		sum.Addresses++
	}

	slog.Info("Catalog seeded", "categories", sum.Categories, "rewards", sum.Rewards,
		"users", sum.Users, "addresses", sum.Addresses, "skipped", sum.Skipped)
	return &sum, nil
}

func active(b *bool) bool {
	return b == nil || *b
}
