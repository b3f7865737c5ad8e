package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"devasthan/internal/domain"
	"devasthan/internal/port"
)

type rangeRepo struct {
	db *sqlx.DB
}

// NewRangeRepo creates a new PostgreSQL-backed RangeRepository.
func NewRangeRepo(db *sqlx.DB) port.RangeRepository {
	return &rangeRepo{db: db}
}

func (r *rangeRepo) Create(ctx context.Context, rng *domain.ReceiptRange) error {
	now := time.Now().UTC()
	rng.CreatedAt = now
	rng.UpdatedAt = now
	rng.Version = 1

	query := `INSERT INTO receipt_ranges
		(org_id, id, alias, year, start_no, end_no, next_no, status, version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		rng.OrgID, rng.ID, rng.Alias, rng.Year, rng.StartNo, rng.EndNo, rng.NextNo,
		rng.Status, rng.Version, rng.CreatedBy, rng.CreatedAt, rng.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrRangeExists
		}
		return fmt.Errorf("rangeRepo.Create: %w", err)
	}
	return nil
}

func (r *rangeRepo) Get(ctx context.Context, orgID uuid.UUID, rangeID string) (*domain.ReceiptRange, error) {
	var rng domain.ReceiptRange
	err := r.db.GetContext(ctx, &rng,
		"SELECT * FROM receipt_ranges WHERE org_id = $1 AND id = $2", orgID, rangeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("rangeRepo.Get: %w", err)
	}
	return &rng, nil
}

func (r *rangeRepo) GetActiveForYear(ctx context.Context, orgID uuid.UUID, year int) (*domain.ReceiptRange, error) {
	var rng domain.ReceiptRange
	err := r.db.GetContext(ctx, &rng,
		"SELECT * FROM receipt_ranges WHERE org_id = $1 AND year = $2 AND status = $3",
		orgID, year, domain.RangeStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("rangeRepo.GetActiveForYear: %w", err)
	}
	return &rng, nil
}

func (r *rangeRepo) ListByYear(ctx context.Context, orgID uuid.UUID, year int, includeArchived bool) ([]domain.ReceiptRange, error) {
	query := "SELECT * FROM receipt_ranges WHERE org_id = $1 AND year = $2"
	if !includeArchived {
		query += " AND status <> 'archived'"
	}
	query += " ORDER BY start_no"

	var ranges []domain.ReceiptRange
	if err := r.db.SelectContext(ctx, &ranges, query, orgID, year); err != nil {
		return nil, fmt.Errorf("rangeRepo.ListByYear: %w", err)
	}
	return ranges, nil
}

func (r *rangeRepo) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.ReceiptRange, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM receipt_ranges WHERE org_id = $1", orgID)
	if err != nil {
		return nil, 0, fmt.Errorf("rangeRepo.List count: %w", err)
	}

	var ranges []domain.ReceiptRange
	err = r.db.SelectContext(ctx, &ranges,
		"SELECT * FROM receipt_ranges WHERE org_id = $1 ORDER BY year DESC, start_no LIMIT $2 OFFSET $3",
		orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("rangeRepo.List: %w", err)
	}
	return ranges, total, nil
}

// CompareAndSwapNext advances the allocation cursor with a single
// conditional UPDATE. The compound precondition on (version, next_no) is
// the only guard against two concurrent allocations handing out the same
// number: if either differs from what the caller read, zero rows match and
// the caller gets ErrVersionConflict.
func (r *rangeRepo) CompareAndSwapNext(ctx context.Context, orgID uuid.UUID, rangeID string, expectedVersion int64, expectedNext, newNext int, markExhausted bool) error {
	query := `UPDATE receipt_ranges
		SET next_no = $1,
			status = CASE WHEN $2 THEN 'exhausted' ELSE status END,
			version = version + 1,
			updated_at = NOW()
		WHERE org_id = $3 AND id = $4 AND version = $5 AND next_no = $6`

	result, err := r.db.ExecContext(ctx, query,
		newNext, markExhausted, orgID, rangeID, expectedVersion, expectedNext)
	if err != nil {
		return fmt.Errorf("rangeRepo.CompareAndSwapNext: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// UpdateStatus applies a status transition conditioned on the version the
// caller read. On success the range's version and updated_at are refreshed
// in place.
func (r *rangeRepo) UpdateStatus(ctx context.Context, rng *domain.ReceiptRange, expectedVersion int64) error {
	rng.UpdatedAt = time.Now().UTC()
	query := `UPDATE receipt_ranges
		SET status = $1, locked_by = $2, locked_at = $3, version = version + 1, updated_at = $4
		WHERE org_id = $5 AND id = $6 AND version = $7`

	result, err := r.db.ExecContext(ctx, query,
		rng.Status, rng.LockedBy, rng.LockedAt, rng.UpdatedAt, rng.OrgID, rng.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("rangeRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrVersionConflict
	}
	rng.Version = expectedVersion + 1
	return nil
}
