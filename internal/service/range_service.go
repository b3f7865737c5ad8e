package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"devasthan/internal/domain"
	"devasthan/internal/metrics"
	"devasthan/internal/port"
)

// CreateRangeInput is the DTO for creating a receipt number range.
type CreateRangeInput struct {
	ID    string `json:"id" binding:"required"`
	Alias string `json:"alias"`
	Year  int    `json:"year" binding:"required"`
	Start int    `json:"start" binding:"required"`
	End   int    `json:"end" binding:"required"`
}

// RangeService manages receipt number ranges: creation, the status
// lifecycle, and allocation of the next sequence number from the active
// range of a year.
type RangeService interface {
	Create(ctx context.Context, orgID, createdBy uuid.UUID, input CreateRangeInput) (*domain.ReceiptRange, error)
	Get(ctx context.Context, orgID uuid.UUID, rangeID string) (*domain.ReceiptRange, error)
	List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.ReceiptRange, int, error)
	ListByYear(ctx context.Context, orgID uuid.UUID, year int) ([]domain.ReceiptRange, error)
	Activate(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error)
	Lock(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error)
	Unlock(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error)
	Archive(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error)
	Allocate(ctx context.Context, orgID uuid.UUID, year int, donationDate time.Time, flexible bool) (*domain.Allocation, error)
}

// TransitionFunc is the shared shape of the lifecycle transition methods
// (Activate, Lock, Unlock, Archive).
type TransitionFunc func(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error)

type rangeService struct {
	repo        port.RangeRepository
	metrics     *metrics.Metrics
	retryBudget int
}

// NewRangeService creates a new RangeService. The allocator retries a lost
// conditional update exactly retryBudget times (default 1) before giving up
// with ErrAllocationConflict.
func NewRangeService(repo port.RangeRepository, m *metrics.Metrics) RangeService {
	return &rangeService{repo: repo, metrics: m, retryBudget: 1}
}

func (s *rangeService) Create(ctx context.Context, orgID, createdBy uuid.UUID, input CreateRangeInput) (*domain.ReceiptRange, error) {
	if input.Year < 2000 || input.Year > 2100 {
		return nil, domain.NewValidationError("year", "must be between 2000 and 2100")
	}
	if err := domain.ValidateRangeID(input.ID, input.Year); err != nil {
		return nil, err
	}
	if input.Start < 1 {
		return nil, domain.NewValidationError("start", "must be at least 1")
	}
	if input.End < input.Start {
		return nil, domain.NewValidationError("end", "must not be less than start")
	}
	if input.End-input.Start+1 > domain.MaxRangeSize {
		return nil, domain.NewValidationError("end", fmt.Sprintf("range size must not exceed %d", domain.MaxRangeSize))
	}

	// Overlap check against every non-archived range of the year. Archived
	// ranges are out of play and may be re-covered by a fresh book.
	existing, err := s.repo.ListByYear(ctx, orgID, input.Year, false)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if input.Start <= existing[i].EndNo && input.End >= existing[i].StartNo {
			return nil, domain.ErrRangeOverlap
		}
	}

	rng := &domain.ReceiptRange{
		OrgID:     orgID,
		ID:        input.ID,
		Alias:     input.Alias,
		Year:      input.Year,
		StartNo:   input.Start,
		EndNo:     input.End,
		NextNo:    input.Start,
		Status:    domain.RangeStatusDraft,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(ctx, rng); err != nil {
		return nil, err
	}
	return rng, nil
}

func (s *rangeService) Get(ctx context.Context, orgID uuid.UUID, rangeID string) (*domain.ReceiptRange, error) {
	return s.repo.Get(ctx, orgID, rangeID)
}

func (s *rangeService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.ReceiptRange, int, error) {
	return s.repo.List(ctx, orgID, offset, limit)
}

func (s *rangeService) ListByYear(ctx context.Context, orgID uuid.UUID, year int) ([]domain.ReceiptRange, error) {
	return s.repo.ListByYear(ctx, orgID, year, true)
}

func (s *rangeService) Activate(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	return s.transition(ctx, orgID, rangeID, domain.RangeStatusActive, domain.RangeStatusDraft, actor)
}

func (s *rangeService) Lock(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	return s.transition(ctx, orgID, rangeID, domain.RangeStatusLocked, domain.RangeStatusActive, actor)
}

// Unlock reactivates a locked range. The cursor is preserved: numbers
// allocated before the lock stay spent.
func (s *rangeService) Unlock(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	return s.transition(ctx, orgID, rangeID, domain.RangeStatusActive, domain.RangeStatusLocked, actor)
}

func (s *rangeService) Archive(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	rng, err := s.repo.Get(ctx, orgID, rangeID)
	if err != nil {
		return nil, err
	}
	if !rng.Status.CanTransitionTo(domain.RangeStatusArchived) {
		return nil, domain.ErrInvalidStatusTransition
	}
	return s.apply(ctx, rng, domain.RangeStatusArchived, actor)
}

// transition moves a range from the expected source status to target,
// guarded by the status machine and the version read.
func (s *rangeService) transition(ctx context.Context, orgID uuid.UUID, rangeID string, target, source domain.RangeStatus, actor uuid.UUID) (*domain.ReceiptRange, error) {
	rng, err := s.repo.Get(ctx, orgID, rangeID)
	if err != nil {
		return nil, err
	}
	if rng.Status != source || !rng.Status.CanTransitionTo(target) {
		return nil, domain.ErrInvalidStatusTransition
	}

	// Only one range per (org, year) may be active at a time.
	if target == domain.RangeStatusActive {
		active, err := s.repo.GetActiveForYear(ctx, orgID, rng.Year)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if active != nil && active.ID != rng.ID {
			return nil, domain.ErrActiveRangeExists
		}
	}

	return s.apply(ctx, rng, target, actor)
}

func (s *rangeService) apply(ctx context.Context, rng *domain.ReceiptRange, target domain.RangeStatus, actor uuid.UUID) (*domain.ReceiptRange, error) {
	expectedVersion := rng.Version
	rng.Status = target
	if target == domain.RangeStatusLocked {
		now := time.Now().UTC()
		rng.LockedBy = &actor
		rng.LockedAt = &now
	} else {
		rng.LockedBy = nil
		rng.LockedAt = nil
	}

	if err := s.repo.UpdateStatus(ctx, rng, expectedVersion); err != nil {
		return nil, err
	}
	return rng, nil
}

// Allocate hands out the next sequence number from the active range of the
// year. The read-compute-conditional-write cycle runs at most
// 1+retryBudget times; beyond that the caller gets ErrAllocationConflict
// and owns any higher-level retry with backoff.
func (s *rangeService) Allocate(ctx context.Context, orgID uuid.UUID, year int, donationDate time.Time, flexible bool) (*domain.Allocation, error) {
	rng, err := s.repo.GetActiveForYear(ctx, orgID, year)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.classifyMissingActive(ctx, orgID, year)
		}
		return nil, err
	}

	if donationDate.Year() != year {
		if !flexible {
			return nil, domain.ErrYearMismatch
		}
		log.Printf("allocate: backdated entry %s against range year %d (org %s, flexible override)",
			donationDate.Format("2006-01-02"), year, orgID)
	}

	return s.allocateFrom(ctx, orgID, year, rng)
}

// allocateFrom runs the read-compute-conditional-write cycle against the
// range the caller just read.
func (s *rangeService) allocateFrom(ctx context.Context, orgID uuid.UUID, year int, rng *domain.ReceiptRange) (*domain.Allocation, error) {
	for attempt := 0; ; attempt++ {
		// Authoritative regardless of status staleness: the cursor, not the
		// status column, decides exhaustion.
		if rng.NextNo > rng.EndNo {
			return nil, domain.ErrRangeExhausted
		}

		seq := rng.NextNo
		newNext := seq + 1
		willExhaust := newNext > rng.EndNo

		err := s.repo.CompareAndSwapNext(ctx, orgID, rng.ID, rng.Version, seq, newNext, willExhaust)
		if err == nil {
			s.metrics.AllocationsIssued.Inc()
			if willExhaust {
				s.metrics.RangesExhausted.Inc()
			}
			return &domain.Allocation{
				ReceiptNo:      domain.FormatReceiptNo(year, seq),
				RangeID:        rng.ID,
				SequenceNumber: seq,
				RangeRemaining: rng.EndNo - seq,
			}, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}

		s.metrics.AllocationConflicts.Inc()
		if attempt >= s.retryBudget {
			return nil, domain.ErrAllocationConflict
		}

		fresh, err := s.repo.Get(ctx, orgID, rng.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrRangeDeleted
			}
			return nil, err
		}
		switch fresh.Status {
		case domain.RangeStatusActive:
			rng = fresh
		case domain.RangeStatusExhausted:
			return nil, domain.ErrRangeExhausted
		default:
			return nil, domain.ErrRangeNotActive
		}
	}
}

// classifyMissingActive decides what an empty active-range lookup means.
// A book that filled up flips to exhausted and stops matching the lookup,
// but its callers must still see "book full" rather than "no book
// configured". Archived ranges are out of play and never consulted.
func (s *rangeService) classifyMissingActive(ctx context.Context, orgID uuid.UUID, year int) error {
	ranges, err := s.repo.ListByYear(ctx, orgID, year, false)
	if err != nil {
		return err
	}
	for i := range ranges {
		if ranges[i].Status == domain.RangeStatusExhausted || ranges[i].NextNo > ranges[i].EndNo {
			return domain.ErrRangeExhausted
		}
	}
	return domain.ErrNoActiveRange
}
