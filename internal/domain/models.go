package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Organization represents one temple trust. It is the sole tenant boundary:
// every range, donor, alias, and receipt is scoped to exactly one org.
type Organization struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an office operator or administrator of an organization.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OrgID        uuid.UUID `db:"org_id" json:"org_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ReceiptRange is a contiguous block of receipt sequence numbers reserved
// for one calendar year. At most one range per (org, year) may be active.
//
// Version is the optimistic-concurrency token: every mutation (allocation or
// status transition) is conditioned on the version read and increments it.
type ReceiptRange struct {
	OrgID     uuid.UUID   `db:"org_id" json:"org_id"`
	ID        string      `db:"id" json:"id"`
	Alias     string      `db:"alias" json:"alias"`
	Year      int         `db:"year" json:"year"`
	StartNo   int         `db:"start_no" json:"start"`
	EndNo     int         `db:"end_no" json:"end"`
	NextNo    int         `db:"next_no" json:"next"`
	Status    RangeStatus `db:"status" json:"status"`
	Version   int64       `db:"version" json:"version"`
	CreatedBy uuid.UUID   `db:"created_by" json:"created_by"`
	LockedBy  *uuid.UUID  `db:"locked_by" json:"locked_by,omitempty"`
	LockedAt  *time.Time  `db:"locked_at" json:"locked_at,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// Remaining returns how many numbers are still unallocated.
func (r *ReceiptRange) Remaining() int {
	if r.NextNo > r.EndNo {
		return 0
	}
	return r.EndNo - r.NextNo + 1
}

// Size returns the total number of sequence numbers in the range.
func (r *ReceiptRange) Size() int {
	return r.EndNo - r.StartNo + 1
}

// Donor is one resolved donor profile. Identifying values are stored masked
// (PAN, email) or normalized (phone, the routing key); one-way hashes back
// the alias index. Stats accumulate on every donation and the record is
// never deleted.
type Donor struct {
	OrgID            uuid.UUID       `db:"org_id" json:"org_id"`
	ID               string          `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	PhoneE164        *string         `db:"phone_e164" json:"phone,omitempty"`
	PANMasked        *string         `db:"pan_masked" json:"pan_masked,omitempty"`
	EmailMasked      *string         `db:"email_masked" json:"email_masked,omitempty"`
	PANHash          *string         `db:"pan_hash" json:"-"`
	EmailHash        *string         `db:"email_hash" json:"-"`
	Address          string          `db:"address" json:"address"`
	LifetimeTotal    decimal.Decimal `db:"lifetime_total" json:"lifetime_total"`
	DonationCount    int             `db:"donation_count" json:"donation_count"`
	LastDonationDate *time.Time      `db:"last_donation_date" json:"last_donation_date,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// DonorAlias maps a normalized identifier (raw E.164 phone, or hashed PAN or
// email) to a donor. Write-once: created only when the donor is first seen
// and never overwritten.
type DonorAlias struct {
	OrgID     uuid.UUID `db:"org_id" json:"org_id"`
	AliasKey  string    `db:"alias_key" json:"alias_key"`
	DonorID   string    `db:"donor_id" json:"donor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AliasKey builds the sort-key form of an alias: "PHONE#<e164>",
// "PAN#<hash>", or "EMAIL#<hash>".
func AliasKey(t AliasType, value string) string {
	return string(t) + "#" + value
}

// Donation is an issued receipt. Immutable once created; the receipt number
// is unique org-wide forever.
type Donation struct {
	OrgID            uuid.UUID       `db:"org_id" json:"org_id"`
	ReceiptNo        string          `db:"receipt_no" json:"receipt_no"`
	RangeID          string          `db:"range_id" json:"range_id"`
	Seq              int             `db:"seq" json:"sequence_number"`
	Date             time.Time       `db:"date" json:"date"`
	DonorID          string          `db:"donor_id" json:"donor_id"`
	DonorName        string          `db:"donor_name" json:"donor_name"`
	DonorPANMasked   *string         `db:"donor_pan_masked" json:"donor_pan_masked,omitempty"`
	DonorPhoneMasked *string         `db:"donor_phone_masked" json:"donor_phone_masked,omitempty"`
	Breakup          json.RawMessage `db:"breakup" json:"breakup"`
	PaymentMode      PaymentMode     `db:"payment_mode" json:"payment_mode"`
	PaymentRef       *string         `db:"payment_ref" json:"payment_ref,omitempty"`
	Eligible80G      bool            `db:"eligible_80g" json:"eligible_80g"`
	Total            decimal.Decimal `db:"total" json:"total"`
	CreatedBy        uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// BreakupMap decodes the stored purpose→amount breakup.
func (d *Donation) BreakupMap() (map[string]decimal.Decimal, error) {
	var m map[string]decimal.Decimal
	if err := json.Unmarshal(d.Breakup, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Allocation is the result of drawing one number from an active range.
type Allocation struct {
	ReceiptNo      string `json:"receipt_no"`
	RangeID        string `json:"range_id"`
	SequenceNumber int    `json:"sequence_number"`
	RangeRemaining int    `json:"range_remaining"`
}
