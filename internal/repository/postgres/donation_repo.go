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

type donationRepo struct {
	db *sqlx.DB
}

// NewDonationRepo creates a new PostgreSQL-backed DonationRepository.
func NewDonationRepo(db *sqlx.DB) port.DonationRepository {
	return &donationRepo{db: db}
}

// CreateWithDonor persists the donation, the donor profile, and any new
// aliases in one transaction. The alias inserts are plain INSERTs against a
// write-once primary key: when two concurrent requests both believe they are
// creating the same brand-new donor, the loser hits the unique violation,
// the whole transaction rolls back, and ErrAliasExists tells the caller to
// restart the flow from identity resolution.
func (r *donationRepo) CreateWithDonor(ctx context.Context, donation *domain.Donation, donor *domain.Donor, newDonor bool, aliases []domain.DonorAlias) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("donationRepo.CreateWithDonor begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	donation.CreatedAt = now

	_, err = tx.ExecContext(ctx, `INSERT INTO donations
		(org_id, receipt_no, range_id, seq, date, donor_id, donor_name, donor_pan_masked,
		 donor_phone_masked, breakup, payment_mode, payment_ref, eligible_80g, total, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		donation.OrgID, donation.ReceiptNo, donation.RangeID, donation.Seq, donation.Date,
		donation.DonorID, donation.DonorName, donation.DonorPANMasked, donation.DonorPhoneMasked,
		donation.Breakup, donation.PaymentMode, donation.PaymentRef, donation.Eligible80G,
		donation.Total, donation.CreatedBy, donation.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrReceiptExists
		}
		return fmt.Errorf("donationRepo.CreateWithDonor donation: %w", err)
	}

	if newDonor {
		donor.CreatedAt = now
		donor.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `INSERT INTO donors
			(org_id, id, name, phone_e164, pan_masked, email_masked, pan_hash, email_hash,
			 address, lifetime_total, donation_count, last_donation_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			donor.OrgID, donor.ID, donor.Name, donor.PhoneE164, donor.PANMasked, donor.EmailMasked,
			donor.PANHash, donor.EmailHash, donor.Address, donor.LifetimeTotal, donor.DonationCount,
			donor.LastDonationDate, donor.CreatedAt, donor.UpdatedAt)
		if err != nil {
			return fmt.Errorf("donationRepo.CreateWithDonor donor insert: %w", err)
		}
	} else {
		// Accumulate stats in SQL so concurrent donations by the same donor
		// never lose an increment.
		_, err = tx.ExecContext(ctx, `UPDATE donors
			SET lifetime_total = lifetime_total + $1,
				donation_count = donation_count + 1,
				last_donation_date = GREATEST(COALESCE(last_donation_date, $2::date), $2::date),
				updated_at = $3
			WHERE org_id = $4 AND id = $5`,
			donation.Total, donation.Date, now, donor.OrgID, donor.ID)
		if err != nil {
			return fmt.Errorf("donationRepo.CreateWithDonor donor update: %w", err)
		}
	}

	for _, alias := range aliases {
		_, err = tx.ExecContext(ctx, `INSERT INTO donor_aliases (org_id, alias_key, donor_id, created_at)
			VALUES ($1, $2, $3, $4)`,
			alias.OrgID, alias.AliasKey, alias.DonorID, now)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return domain.ErrAliasExists
			}
			return fmt.Errorf("donationRepo.CreateWithDonor alias: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("donationRepo.CreateWithDonor commit: %w", err)
	}
	return nil
}

func (r *donationRepo) GetByReceiptNo(ctx context.Context, orgID uuid.UUID, receiptNo string) (*domain.Donation, error) {
	var donation domain.Donation
	err := r.db.GetContext(ctx, &donation,
		"SELECT * FROM donations WHERE org_id = $1 AND receipt_no = $2", orgID, receiptNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("donationRepo.GetByReceiptNo: %w", err)
	}
	return &donation, nil
}

func (r *donationRepo) List(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter) ([]domain.Donation, int, error) {
	where := "WHERE org_id = $1"
	args := []interface{}{orgID}

	if filter.DonorID != "" {
		args = append(args, filter.DonorID)
		where += fmt.Sprintf(" AND donor_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.PaymentMode != "" {
		args = append(args, filter.PaymentMode)
		where += fmt.Sprintf(" AND payment_mode = $%d", len(args))
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM donations "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("donationRepo.List count: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT * FROM donations %s ORDER BY date DESC, receipt_no DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var donations []domain.Donation
	if err := r.db.SelectContext(ctx, &donations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("donationRepo.List: %w", err)
	}
	return donations, total, nil
}

func (r *donationRepo) ListByDonor(ctx context.Context, orgID uuid.UUID, donorID string, offset, limit int) ([]domain.Donation, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM donations WHERE org_id = $1 AND donor_id = $2", orgID, donorID)
	if err != nil {
		return nil, 0, fmt.Errorf("donationRepo.ListByDonor count: %w", err)
	}

	var donations []domain.Donation
	err = r.db.SelectContext(ctx, &donations,
		`SELECT * FROM donations WHERE org_id = $1 AND donor_id = $2
		 ORDER BY date DESC, receipt_no DESC LIMIT $3 OFFSET $4`,
		orgID, donorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("donationRepo.ListByDonor: %w", err)
	}
	return donations, total, nil
}

func (r *donationRepo) ListByDate(ctx context.Context, orgID uuid.UUID, date time.Time) ([]domain.Donation, error) {
	var donations []domain.Donation
	err := r.db.SelectContext(ctx, &donations,
		"SELECT * FROM donations WHERE org_id = $1 AND date = $2 ORDER BY receipt_no",
		orgID, date)
	if err != nil {
		return nil, fmt.Errorf("donationRepo.ListByDate: %w", err)
	}
	return donations, nil
}
