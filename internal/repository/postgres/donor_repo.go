package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"devasthan/internal/domain"
	"devasthan/internal/port"
)

type donorRepo struct {
	db *sqlx.DB
}

// NewDonorRepo creates a new PostgreSQL-backed DonorRepository.
func NewDonorRepo(db *sqlx.DB) port.DonorRepository {
	return &donorRepo{db: db}
}

func (r *donorRepo) Get(ctx context.Context, orgID uuid.UUID, donorID string) (*domain.Donor, error) {
	var donor domain.Donor
	err := r.db.GetContext(ctx, &donor,
		"SELECT * FROM donors WHERE org_id = $1 AND id = $2", orgID, donorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDonorNotFound
		}
		return nil, fmt.Errorf("donorRepo.Get: %w", err)
	}
	return &donor, nil
}

func (r *donorRepo) GetByAlias(ctx context.Context, orgID uuid.UUID, aliasKey string) (*domain.Donor, error) {
	query := `SELECT d.* FROM donors d
		JOIN donor_aliases a ON a.org_id = d.org_id AND a.donor_id = d.id
		WHERE a.org_id = $1 AND a.alias_key = $2`

	var donor domain.Donor
	err := r.db.GetContext(ctx, &donor, query, orgID, aliasKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDonorNotFound
		}
		return nil, fmt.Errorf("donorRepo.GetByAlias: %w", err)
	}
	return &donor, nil
}

func (r *donorRepo) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.Donor, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM donors WHERE org_id = $1", orgID)
	if err != nil {
		return nil, 0, fmt.Errorf("donorRepo.List count: %w", err)
	}

	var donors []domain.Donor
	err = r.db.SelectContext(ctx, &donors,
		"SELECT * FROM donors WHERE org_id = $1 ORDER BY name LIMIT $2 OFFSET $3",
		orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("donorRepo.List: %w", err)
	}
	return donors, total, nil
}

func (r *donorRepo) Search(ctx context.Context, orgID uuid.UUID, query string, offset, limit int) ([]domain.Donor, int, error) {
	pattern := "%" + query + "%"
	where := `WHERE org_id = $1 AND (name ILIKE $2 OR phone_e164 LIKE $2)`

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM donors "+where, orgID, pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("donorRepo.Search count: %w", err)
	}

	var donors []domain.Donor
	err = r.db.SelectContext(ctx, &donors,
		"SELECT * FROM donors "+where+" ORDER BY name LIMIT $3 OFFSET $4",
		orgID, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("donorRepo.Search: %w", err)
	}
	return donors, total, nil
}
