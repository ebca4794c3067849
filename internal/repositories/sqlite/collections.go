package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
)

var _ repositories.CollectionRepository = (*collectionRepository)(nil)

type collectionRepository struct {
	q querier
}

const collectionColumns = `id, donation_request_id, collector_id, verification_code, collected_at,
	verification_notes, verification_images, points_awarded, created_at`

// Create inserts the claim. The UNIQUE constraint on donation_request_id
// rejects a second claim for the same request.
func (r *collectionRepository) Create(ctx context.Context, c *models.Collection) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	images, err := encodeImages(c.VerificationImages)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO collections (`+collectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.DonationRequestID, c.CollectorID, c.VerificationCode, formatNullTime(c.CollectedAt),
		c.VerificationNotes, images, c.PointsAwarded, formatTime(c.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("collection for request %s: %w", c.DonationRequestID, repositories.ErrDuplicate)
	}
	return err
}

// FindByRequestID returns the claim for a donation request.
func (r *collectionRepository) FindByRequestID(ctx context.Context, requestID string) (*models.Collection, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE donation_request_id = ?`, requestID)
	c, err := scanCollection(row)
	if err != nil {
		return nil, notFound(err, "collection for request "+requestID)
	}
	return c, nil
}

// MarkCollected stamps completion fields once.
func (r *collectionRepository) MarkCollected(ctx context.Context, c *models.Collection) (bool, error) {
	images, err := encodeImages(c.VerificationImages)
	if err != nil {
		return false, err
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE collections
		SET collected_at = ?, verification_notes = ?, verification_images = ?, points_awarded = ?
		WHERE id = ? AND collected_at IS NULL
	`, formatNullTime(c.CollectedAt), c.VerificationNotes, images, c.PointsAwarded, c.ID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// FindByCollector lists a collector's claims, newest first.
func (r *collectionRepository) FindByCollector(ctx context.Context, collectorID string, page, limit int) ([]*models.Collection, error) {
	offset, size := repositories.Paginate(page, limit)
	rows, err := r.q.QueryContext(ctx, `SELECT `+collectionColumns+` FROM collections
		WHERE collector_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, collectorID, size, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanCollection(s scanner) (*models.Collection, error) {
	var c models.Collection
	var collected sql.NullString
	var images, created string
	var points sql.NullInt64
	if err := s.Scan(&c.ID, &c.DonationRequestID, &c.CollectorID, &c.VerificationCode, &collected,
		&c.VerificationNotes, &images, &points, &created); err != nil {
		return nil, err
	}
	c.CollectedAt = parseNullTime(collected)
	if images != "" && images != "[]" {
		if err := json.Unmarshal([]byte(images), &c.VerificationImages); err != nil {
			return nil, fmt.Errorf("decode verification images: %w", err)
		}
	}
	if points.Valid {
		p := points.Int64
		c.PointsAwarded = &p
	}
	c.CreatedAt = parseTime(created)
	return &c, nil
}

func encodeImages(images []string) (string, error) {
	if len(images) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("encode verification images: %w", err)
	}
	return string(b), nil
}
