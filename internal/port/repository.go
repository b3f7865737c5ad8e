package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"devasthan/internal/domain"
)

// OrgRepository defines the contract for organization persistence.
type OrgRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	List(ctx context.Context, offset, limit int) ([]domain.Organization, int, error)
	Update(ctx context.Context, org *domain.Organization) error
}

// UserRepository defines the contract for operator persistence. All query
// methods include orgID to enforce org isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, orgID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*domain.User, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
}

// RangeRepository defines the contract for receipt range persistence.
//
// CompareAndSwapNext and UpdateStatus are the conditional-write primitives
// the allocator is built on: both succeed only if the stored version (and,
// for allocation, the stored cursor) still equals what the caller read, and
// both increment the version. A failed condition surfaces as
// domain.ErrVersionConflict; the caller decides whether to re-read and retry.
type RangeRepository interface {
	Create(ctx context.Context, rng *domain.ReceiptRange) error
	Get(ctx context.Context, orgID uuid.UUID, rangeID string) (*domain.ReceiptRange, error)
	GetActiveForYear(ctx context.Context, orgID uuid.UUID, year int) (*domain.ReceiptRange, error)
	ListByYear(ctx context.Context, orgID uuid.UUID, year int, includeArchived bool) ([]domain.ReceiptRange, error)
	List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.ReceiptRange, int, error)
	CompareAndSwapNext(ctx context.Context, orgID uuid.UUID, rangeID string, expectedVersion int64, expectedNext, newNext int, markExhausted bool) error
	UpdateStatus(ctx context.Context, rng *domain.ReceiptRange, expectedVersion int64) error
}

// DonorRepository defines the read-side contract for donor profiles and the
// alias index. Donor writes happen only inside the donation transaction
// (see DonationRepository) so a donation is never recorded without its
// profile and aliases, or vice versa.
type DonorRepository interface {
	Get(ctx context.Context, orgID uuid.UUID, donorID string) (*domain.Donor, error)
	GetByAlias(ctx context.Context, orgID uuid.UUID, aliasKey string) (*domain.Donor, error)
	List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.Donor, int, error)
	Search(ctx context.Context, orgID uuid.UUID, query string, offset, limit int) ([]domain.Donor, int, error)
}

// DonationFilter narrows donation listings.
type DonationFilter struct {
	DonorID     string
	From        *time.Time
	To          *time.Time
	PaymentMode domain.PaymentMode
	Offset      int
	Limit       int
}

// DonationRepository defines the contract for issued receipts.
type DonationRepository interface {
	// CreateWithDonor commits the donation insert, the donor profile upsert,
	// and (for new donors) the write-once alias inserts as one transaction.
	// A duplicate alias aborts the whole transaction with
	// domain.ErrAliasExists; nothing is persisted in that case.
	CreateWithDonor(ctx context.Context, donation *domain.Donation, donor *domain.Donor, newDonor bool, aliases []domain.DonorAlias) error
	GetByReceiptNo(ctx context.Context, orgID uuid.UUID, receiptNo string) (*domain.Donation, error)
	List(ctx context.Context, orgID uuid.UUID, filter DonationFilter) ([]domain.Donation, int, error)
	ListByDonor(ctx context.Context, orgID uuid.UUID, donorID string, offset, limit int) ([]domain.Donation, int, error)
	ListByDate(ctx context.Context, orgID uuid.UUID, date time.Time) ([]domain.Donation, error)
}
