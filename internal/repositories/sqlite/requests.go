package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ repositories.DonationRequestRepository = (*requestRepository)(nil)

type requestRepository struct {
	q querier
}

const requestColumns = `id, donor_id, category_id, address_id, estimated_weight, actual_weight,
	status, notes, preferred_date, created_at, updated_at`

// Create inserts a new donation request
func (r *requestRepository) Create(ctx context.Context, req *models.DonationRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	var actual interface{}
	if req.ActualWeight != nil {
		actual = req.ActualWeight.String()
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO donation_requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.ID, req.DonorID, req.CategoryID, req.AddressID, req.EstimatedWeight.String(), actual,
		string(req.Status), req.Notes, formatNullTime(req.PreferredDate), formatTime(now), formatTime(now))
	if isUniqueViolation(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByID finds a donation request by ID
func (r *requestRepository) FindByID(ctx context.Context, id string) (*models.DonationRequest, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM donation_requests WHERE id = ?`, id)
	req, err := scanRequest(row)
	if err != nil {
		return nil, notFound(err, "donation request "+id)
	}
	return req, nil
}

// UpdateDetails writes the editable fields while the request is PENDING.
func (r *requestRepository) UpdateDetails(ctx context.Context, req *models.DonationRequest) (bool, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE donation_requests
		SET category_id = ?, address_id = ?, estimated_weight = ?, notes = ?, preferred_date = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, req.CategoryID, req.AddressID, req.EstimatedWeight.String(), req.Notes, formatNullTime(req.PreferredDate),
		formatTime(now), req.ID, string(models.RequestPending))
	if err != nil {
		return false, err
	}
	ok, err := affected(res)
	if ok {
		req.UpdatedAt = now
	}
	return ok, err
}

// CompareAndSetStatus moves the request to `to` if its status is in `from`.
func (r *requestRepository) CompareAndSetStatus(ctx context.Context, id string, from []models.RequestStatus, to models.RequestStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	args := []interface{}{string(to), formatTime(time.Now()), id}
	marks := make([]string, len(from))
	for i, s := range from {
		marks[i] = "?"
		args = append(args, string(s))
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE donation_requests SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (`+strings.Join(marks, ", ")+`)
	`, args...)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// MarkCompleted sets COMPLETED and the actual weight while ACCEPTED.
func (r *requestRepository) MarkCompleted(ctx context.Context, id string, actualWeight decimal.Decimal) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE donation_requests SET status = ?, actual_weight = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, string(models.RequestCompleted), actualWeight.String(), formatTime(time.Now()), id, string(models.RequestAccepted))
	if err != nil {
		return false, err
	}
	return affected(res)
}

// FindByDonor lists a donor's requests, newest first.
func (r *requestRepository) FindByDonor(ctx context.Context, donorID string, page, limit int) ([]*models.DonationRequest, error) {
	offset, size := repositories.Paginate(page, limit)
	return r.list(ctx, `SELECT `+requestColumns+` FROM donation_requests
		WHERE donor_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, donorID, size, offset)
}

// FindByStatus lists requests in a status, newest first.
func (r *requestRepository) FindByStatus(ctx context.Context, status models.RequestStatus, page, limit int) ([]*models.DonationRequest, error) {
	offset, size := repositories.Paginate(page, limit)
	return r.list(ctx, `SELECT `+requestColumns+` FROM donation_requests
		WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, string(status), size, offset)
}

func (r *requestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.DonationRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.DonationRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(s scanner) (*models.DonationRequest, error) {
	var req models.DonationRequest
	var estimated, status, created, updated string
	var actual, preferred sql.NullString
	if err := s.Scan(&req.ID, &req.DonorID, &req.CategoryID, &req.AddressID, &estimated, &actual,
		&status, &req.Notes, &preferred, &created, &updated); err != nil {
		return nil, err
	}
	w, err := decimal.NewFromString(estimated)
	if err != nil {
		return nil, err
	}
	req.EstimatedWeight = w
	if actual.Valid {
		a, err := decimal.NewFromString(actual.String)
		if err != nil {
			return nil, err
		}
		req.ActualWeight = &a
	}
	req.Status = models.RequestStatus(status)
	req.PreferredDate = parseNullTime(preferred)
	req.CreatedAt = parseTime(created)
	req.UpdatedAt = parseTime(updated)
	return &req, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
