package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"devasthan/internal/domain"
	"devasthan/internal/metrics"
	"devasthan/internal/normalize"
	"devasthan/internal/port"
)

// PaymentInput is the payment block of a donation request.
type PaymentInput struct {
	Mode string `json:"mode" binding:"required"`
	Ref  string `json:"ref"`
}

// CreateDonationInput is the DTO for recording a donation. Breakup amounts
// arrive as loosely-typed JSON values and are validated through
// normalize.Amount before any domain logic runs.
type CreateDonationInput struct {
	Donor        DonorInfo      `json:"donor" binding:"required"`
	Date         string         `json:"date"`
	Breakup      map[string]any `json:"breakup" binding:"required"`
	Payment      PaymentInput   `json:"payment" binding:"required"`
	Eligible80G  bool           `json:"eligible_80g"`
	FlexibleYear bool           `json:"flexible_year"`
}

// CreateDonationResult is returned after a receipt is issued.
type CreateDonationResult struct {
	ReceiptNo  string          `json:"receipt_no"`
	RangeID    string          `json:"range_id"`
	DonorID    string          `json:"donor_id"`
	IsNewDonor bool            `json:"is_new_donor"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DonationService issues receipts and serves the read side of the register.
type DonationService interface {
	Create(ctx context.Context, orgID, createdBy uuid.UUID, input CreateDonationInput) (*CreateDonationResult, error)
	GetByReceiptNo(ctx context.Context, orgID uuid.UUID, receiptNo string) (*domain.Donation, error)
	List(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter) ([]domain.Donation, int, error)
	ListByDonor(ctx context.Context, orgID uuid.UUID, donorID string, offset, limit int) ([]domain.Donation, int, error)
	ListByDate(ctx context.Context, orgID uuid.UUID, date time.Time) ([]domain.Donation, error)
}

type donationService struct {
	donations port.DonationRepository
	resolver  ResolverService
	allocator RangeService
	email     port.EmailSender
	orgs      port.OrgRepository
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewDonationService creates a new DonationService implementation. The
// email sender is optional; when nil no confirmation is sent.
func NewDonationService(
	donations port.DonationRepository,
	resolver ResolverService,
	allocator RangeService,
	email port.EmailSender,
	orgs port.OrgRepository,
	m *metrics.Metrics,
) DonationService {
	return &donationService{
		donations: donations,
		resolver:  resolver,
		allocator: allocator,
		email:     email,
		orgs:      orgs,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create runs the full issuance flow: validate, resolve identity, total the
// breakup, allocate a number from the current year's active range, then
// commit donation + donor + aliases in one transaction.
//
// If the final transactional write fails after allocation (including the
// new-donor alias race), the allocated number is not reclaimed; the caller
// restarts the whole flow and draws a fresh number. Numbers are never
// duplicated, only rarely skipped.
func (s *donationService) Create(ctx context.Context, orgID, createdBy uuid.UUID, input CreateDonationInput) (*CreateDonationResult, error) {
	date, err := parseDonationDate(input.Date, s.now)
	if err != nil {
		return nil, err
	}

	mode := domain.PaymentMode(input.Payment.Mode)
	if !domain.ValidPaymentModes[mode] {
		return nil, domain.NewValidationError("payment.mode", "must be one of cash, upi, card, bank_transfer, cheque")
	}

	breakup, total, err := normalizeBreakup(input.Breakup)
	if err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, orgID, input.Donor)
	if err != nil {
		return nil, err
	}

	alloc, err := s.allocator.Allocate(ctx, orgID, s.now().Year(), date, input.FlexibleYear)
	if err != nil {
		return nil, fmt.Errorf("allocating receipt number: %w", err)
	}

	donation, donor, aliases, err := s.buildRecords(orgID, createdBy, res, alloc, date, breakup, total, mode, input)
	if err != nil {
		return nil, err
	}

	if err := s.donations.CreateWithDonor(ctx, donation, donor, res.IsNew, aliases); err != nil {
		return nil, err
	}
	s.metrics.DonationsCreated.Inc()

	s.sendConfirmation(ctx, orgID, res, donation)

	return &CreateDonationResult{
		ReceiptNo:  donation.ReceiptNo,
		RangeID:    donation.RangeID,
		DonorID:    donation.DonorID,
		IsNewDonor: res.IsNew,
		Total:      total,
		CreatedAt:  donation.CreatedAt,
	}, nil
}

func parseDonationDate(raw string, now func() time.Time) (time.Time, error) {
	if raw == "" {
		t := now()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return date, nil
}

// normalizeBreakup validates the purpose→amount map and returns it in
// canonical decimal form along with the total.
func normalizeBreakup(raw map[string]any) (map[string]decimal.Decimal, decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, decimal.Zero, domain.NewValidationError("breakup", "must contain at least one purpose")
	}
	breakup := make(map[string]decimal.Decimal, len(raw))
	total := decimal.Zero
	for purpose, v := range raw {
		amount, ok := normalize.Amount(v)
		if !ok || !amount.IsPositive() {
			return nil, decimal.Zero, domain.NewValidationError("breakup."+purpose, "must be a positive amount")
		}
		breakup[purpose] = amount
		total = total.Add(amount)
	}
	if !total.IsPositive() {
		return nil, decimal.Zero, domain.NewValidationError("breakup", "total must be greater than zero")
	}
	return breakup, total, nil
}

func (s *donationService) buildRecords(
	orgID, createdBy uuid.UUID,
	res *Resolution,
	alloc *domain.Allocation,
	date time.Time,
	breakup map[string]decimal.Decimal,
	total decimal.Decimal,
	mode domain.PaymentMode,
	input CreateDonationInput,
) (*domain.Donation, *domain.Donor, []domain.DonorAlias, error) {
	breakupJSON, err := json.Marshal(breakup)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshaling breakup: %w", err)
	}

	n := res.Normalized
	donation := &domain.Donation{
		OrgID:       orgID,
		ReceiptNo:   alloc.ReceiptNo,
		RangeID:     alloc.RangeID,
		Seq:         alloc.SequenceNumber,
		Date:        date,
		DonorID:     res.DonorID,
		DonorName:   n.Name,
		Breakup:     breakupJSON,
		PaymentMode: mode,
		Eligible80G: input.Eligible80G,
		Total:       total,
		CreatedBy:   createdBy,
	}
	if n.PAN != "" {
		masked := normalize.MaskPAN(n.PAN)
		donation.DonorPANMasked = &masked
	}
	if n.Phone != "" {
		masked := normalize.MaskPhone(n.Phone)
		donation.DonorPhoneMasked = &masked
	}
	if input.Payment.Ref != "" {
		ref := input.Payment.Ref
		donation.PaymentRef = &ref
	}

	donor := res.Profile
	var aliases []domain.DonorAlias
	if res.IsNew {
		donor = &domain.Donor{
			OrgID:            orgID,
			ID:               res.DonorID,
			Name:             n.Name,
			Address:          n.Address,
			LifetimeTotal:    total,
			DonationCount:    1,
			LastDonationDate: &date,
		}
		if n.Phone != "" {
			phone := n.Phone
			donor.PhoneE164 = &phone
			aliases = append(aliases, domain.DonorAlias{
				OrgID: orgID, AliasKey: domain.AliasKey(domain.AliasTypePhone, phone), DonorID: res.DonorID,
			})
		}
		if n.PAN != "" {
			masked := normalize.MaskPAN(n.PAN)
			hash := normalize.Hash(n.PAN)
			donor.PANMasked = &masked
			donor.PANHash = &hash
			aliases = append(aliases, domain.DonorAlias{
				OrgID: orgID, AliasKey: domain.AliasKey(domain.AliasTypePAN, hash), DonorID: res.DonorID,
			})
		}
		if n.Email != "" {
			masked := normalize.MaskEmail(n.Email)
			hash := normalize.Hash(n.Email)
			donor.EmailMasked = &masked
			donor.EmailHash = &hash
			aliases = append(aliases, domain.DonorAlias{
				OrgID: orgID, AliasKey: domain.AliasKey(domain.AliasTypeEmail, hash), DonorID: res.DonorID,
			})
		}
	}

	return donation, donor, aliases, nil
}

// sendConfirmation emails the donor a receipt summary. Delivery failure
// never fails the donation; the receipt is already committed.
func (s *donationService) sendConfirmation(ctx context.Context, orgID uuid.UUID, res *Resolution, donation *domain.Donation) {
	if s.email == nil || res.Normalized.Email == "" {
		return
	}
	orgName := ""
	if org, err := s.orgs.GetByID(ctx, orgID); err == nil {
		orgName = org.Name
	}
	err := s.email.SendReceiptEmail(ctx, port.ReceiptEmail{
		ToEmail:   res.Normalized.Email,
		ToName:    res.Normalized.Name,
		OrgName:   orgName,
		ReceiptNo: donation.ReceiptNo,
		Total:     donation.Total.StringFixed(2),
		Date:      donation.Date.Format("2006-01-02"),
	})
	if err != nil {
		log.Printf("donation %s: receipt email failed: %v", donation.ReceiptNo, err)
	}
}

func (s *donationService) GetByReceiptNo(ctx context.Context, orgID uuid.UUID, receiptNo string) (*domain.Donation, error) {
	if _, _, err := domain.ParseReceiptNo(receiptNo); err != nil {
		return nil, err
	}
	return s.donations.GetByReceiptNo(ctx, orgID, receiptNo)
}

func (s *donationService) List(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter) ([]domain.Donation, int, error) {
	return s.donations.List(ctx, orgID, filter)
}

func (s *donationService) ListByDonor(ctx context.Context, orgID uuid.UUID, donorID string, offset, limit int) ([]domain.Donation, int, error) {
	return s.donations.ListByDonor(ctx, orgID, donorID, offset, limit)
}

func (s *donationService) ListByDate(ctx context.Context, orgID uuid.UUID, date time.Time) ([]domain.Donation, error) {
	return s.donations.ListByDate(ctx, orgID, date)
}
