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

type orgRepo struct {
	db *sqlx.DB
}

// NewOrgRepo creates a new PostgreSQL-backed OrgRepository.
func NewOrgRepo(db *sqlx.DB) port.OrgRepository {
	return &orgRepo{db: db}
}

func (r *orgRepo) Create(ctx context.Context, org *domain.Organization) error {
	org.ID = uuid.New()
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now

	query := `INSERT INTO organizations (id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		org.ID, org.Name, org.Slug, org.IsActive, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "slug") {
			return domain.ErrDuplicateOrgSlug
		}
		return fmt.Errorf("orgRepo.Create: %w", err)
	}
	return nil
}

func (r *orgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.GetContext(ctx, &org, "SELECT * FROM organizations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orgRepo.GetByID: %w", err)
	}
	return &org, nil
}

func (r *orgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.GetContext(ctx, &org, "SELECT * FROM organizations WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orgRepo.GetBySlug: %w", err)
	}
	return &org, nil
}

func (r *orgRepo) List(ctx context.Context, offset, limit int) ([]domain.Organization, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM organizations")
	if err != nil {
		return nil, 0, fmt.Errorf("orgRepo.List count: %w", err)
	}

	var orgs []domain.Organization
	err = r.db.SelectContext(ctx, &orgs,
		"SELECT * FROM organizations ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orgRepo.List: %w", err)
	}
	return orgs, total, nil
}

func (r *orgRepo) Update(ctx context.Context, org *domain.Organization) error {
	org.UpdatedAt = time.Now().UTC()
	query := `UPDATE organizations SET name = $1, slug = $2, is_active = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		org.Name, org.Slug, org.IsActive, org.UpdatedAt, org.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "slug") {
			return domain.ErrDuplicateOrgSlug
		}
		return fmt.Errorf("orgRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
