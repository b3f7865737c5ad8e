package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/domain"
	"devasthan/internal/metrics"
	"devasthan/internal/service"
	"devasthan/mocks"
)

func newRangeService(repo *mocks.MockRangeRepo) service.RangeService {
	return service.NewRangeService(repo, metrics.New(prometheus.NewRegistry()))
}

func activeRange(orgID uuid.UUID, year int) *domain.ReceiptRange {
	return &domain.ReceiptRange{
		OrgID:   orgID,
		ID:      "2025-A",
		Year:    year,
		StartNo: 1,
		EndNo:   100,
		NextNo:  1,
		Status:  domain.RangeStatusActive,
		Version: 3,
	}
}

func TestRangeService_Create_Success(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, userID := uuid.New(), uuid.New()

	repo.On("ListByYear", mock.Anything, orgID, 2025, false).Return([]domain.ReceiptRange{}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ReceiptRange")).Return(nil)

	rng, err := svc.Create(context.Background(), orgID, userID, service.CreateRangeInput{
		ID: "2025-A", Year: 2025, Start: 1, End: 5000,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RangeStatusDraft, rng.Status)
	assert.Equal(t, 1, rng.NextNo)
	assert.Equal(t, userID, rng.CreatedBy)
	repo.AssertExpectations(t)
}

func TestRangeService_Create_Validation(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, userID := uuid.New(), uuid.New()

	tests := []struct {
		name  string
		input service.CreateRangeInput
	}{
		{"year out of bounds", service.CreateRangeInput{ID: "1999-A", Year: 1999, Start: 1, End: 10}},
		{"bad id format", service.CreateRangeInput{ID: "2025-ABC", Year: 2025, Start: 1, End: 10}},
		{"id year mismatch", service.CreateRangeInput{ID: "2024-A", Year: 2025, Start: 1, End: 10}},
		{"start below one", service.CreateRangeInput{ID: "2025-A", Year: 2025, Start: 0, End: 10}},
		{"end before start", service.CreateRangeInput{ID: "2025-A", Year: 2025, Start: 10, End: 5}},
		{"too large", service.CreateRangeInput{ID: "2025-A", Year: 2025, Start: 1, End: 100001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := svc.Create(context.Background(), orgID, userID, tt.input)
			assert.Nil(t, rng)
			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
	repo.AssertNotCalled(t, "Create")
}

func TestRangeService_Create_Overlap(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, userID := uuid.New(), uuid.New()

	existing := []domain.ReceiptRange{
		{ID: "2025-A", Year: 2025, StartNo: 1, EndNo: 5000, Status: domain.RangeStatusActive},
	}
	repo.On("ListByYear", mock.Anything, orgID, 2025, false).Return(existing, nil)

	rng, err := svc.Create(context.Background(), orgID, userID, service.CreateRangeInput{
		ID: "2025-B", Year: 2025, Start: 4000, End: 9000,
	})

	assert.Nil(t, rng)
	assert.ErrorIs(t, err, domain.ErrRangeOverlap)
	repo.AssertNotCalled(t, "Create")
}

func TestRangeService_Create_AdjacentRangesAllowed(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, userID := uuid.New(), uuid.New()

	existing := []domain.ReceiptRange{
		{ID: "2025-A", Year: 2025, StartNo: 1, EndNo: 5000, Status: domain.RangeStatusActive},
	}
	repo.On("ListByYear", mock.Anything, orgID, 2025, false).Return(existing, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ReceiptRange")).Return(nil)

	rng, err := svc.Create(context.Background(), orgID, userID, service.CreateRangeInput{
		ID: "2025-B", Year: 2025, Start: 5001, End: 9000,
	})

	assert.NoError(t, err)
	assert.Equal(t, "2025-B", rng.ID)
}

func TestRangeService_Activate_Success(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, actor := uuid.New(), uuid.New()

	draft := &domain.ReceiptRange{OrgID: orgID, ID: "2025-A", Year: 2025, Status: domain.RangeStatusDraft, Version: 1}
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(draft, nil)
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(nil, domain.ErrNotFound)
	repo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*domain.ReceiptRange"), int64(1)).Return(nil)

	rng, err := svc.Activate(context.Background(), orgID, "2025-A", actor)

	assert.NoError(t, err)
	assert.Equal(t, domain.RangeStatusActive, rng.Status)
	repo.AssertExpectations(t)
}

func TestRangeService_Activate_AnotherRangeActive(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, actor := uuid.New(), uuid.New()

	draft := &domain.ReceiptRange{OrgID: orgID, ID: "2025-B", Year: 2025, Status: domain.RangeStatusDraft, Version: 1}
	other := &domain.ReceiptRange{OrgID: orgID, ID: "2025-A", Year: 2025, Status: domain.RangeStatusActive}
	repo.On("Get", mock.Anything, orgID, "2025-B").Return(draft, nil)
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(other, nil)

	rng, err := svc.Activate(context.Background(), orgID, "2025-B", actor)

	assert.Nil(t, rng)
	assert.ErrorIs(t, err, domain.ErrActiveRangeExists)
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestRangeService_Activate_FromArchived(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, actor := uuid.New(), uuid.New()

	archived := &domain.ReceiptRange{OrgID: orgID, ID: "2025-A", Year: 2025, Status: domain.RangeStatusArchived, Version: 7}
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(archived, nil)

	rng, err := svc.Activate(context.Background(), orgID, "2025-A", actor)

	assert.Nil(t, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestRangeService_Lock_RecordsActor(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, actor := uuid.New(), uuid.New()

	active := activeRange(orgID, 2025)
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(active, nil)
	repo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*domain.ReceiptRange"), int64(3)).Return(nil)

	rng, err := svc.Lock(context.Background(), orgID, "2025-A", actor)

	assert.NoError(t, err)
	assert.Equal(t, domain.RangeStatusLocked, rng.Status)
	assert.NotNil(t, rng.LockedBy)
	assert.Equal(t, actor, *rng.LockedBy)
	assert.NotNil(t, rng.LockedAt)
}

func TestRangeService_Unlock_PreservesCursor(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, actor := uuid.New(), uuid.New()

	lockedBy := uuid.New()
	now := time.Now()
	locked := &domain.ReceiptRange{
		OrgID: orgID, ID: "2025-A", Year: 2025, StartNo: 1, EndNo: 100, NextNo: 43,
		Status: domain.RangeStatusLocked, Version: 5, LockedBy: &lockedBy, LockedAt: &now,
	}
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(locked, nil)
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(nil, domain.ErrNotFound)
	repo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*domain.ReceiptRange"), int64(5)).Return(nil)

	rng, err := svc.Unlock(context.Background(), orgID, "2025-A", actor)

	assert.NoError(t, err)
	assert.Equal(t, domain.RangeStatusActive, rng.Status)
	assert.Equal(t, 43, rng.NextNo)
	assert.Nil(t, rng.LockedBy)
	assert.Nil(t, rng.LockedAt)
}

func TestRangeService_Archive_FromExhausted(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, actor := uuid.New(), uuid.New()

	exhausted := &domain.ReceiptRange{OrgID: orgID, ID: "2025-A", Year: 2025, Status: domain.RangeStatusExhausted, Version: 9}
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(exhausted, nil)
	repo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*domain.ReceiptRange"), int64(9)).Return(nil)

	rng, err := svc.Archive(context.Background(), orgID, "2025-A", actor)

	assert.NoError(t, err)
	assert.Equal(t, domain.RangeStatusArchived, rng.Status)
}

func TestRangeService_Archive_FromActive(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID, actor := uuid.New(), uuid.New()

	repo.On("Get", mock.Anything, orgID, "2025-A").Return(activeRange(orgID, 2025), nil)

	rng, err := svc.Archive(context.Background(), orgID, "2025-A", actor)

	assert.Nil(t, rng)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func donationDate(year int) time.Time {
	return time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
}

func TestRangeService_Allocate_Success(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	rng := activeRange(orgID, 2025)
	rng.NextNo = 42
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(rng, nil)
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(3), 42, 43, false).Return(nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.NoError(t, err)
	assert.Equal(t, "2025-00042", alloc.ReceiptNo)
	assert.Equal(t, 42, alloc.SequenceNumber)
	assert.Equal(t, "2025-A", alloc.RangeID)
	assert.Equal(t, 58, alloc.RangeRemaining)
	repo.AssertExpectations(t)
}

func TestRangeService_Allocate_LastNumberExhaustsRange(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	rng := activeRange(orgID, 2025)
	rng.NextNo = 100
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(rng, nil)
	// The write that hands out the final number also flips the status.
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(3), 100, 101, true).Return(nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.NoError(t, err)
	assert.Equal(t, "2025-00100", alloc.ReceiptNo)
	assert.Equal(t, 0, alloc.RangeRemaining)
	repo.AssertExpectations(t)
}

func TestRangeService_Allocate_NoActiveRange(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(nil, domain.ErrNotFound)
	repo.On("ListByYear", mock.Anything, orgID, 2025, false).Return([]domain.ReceiptRange{}, nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrNoActiveRange)
}

func TestRangeService_Allocate_NoActiveRange_DraftOnly(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	draft := domain.ReceiptRange{
		OrgID: orgID, ID: "2025-A", Year: 2025,
		StartNo: 1, EndNo: 100, NextNo: 1,
		Status: domain.RangeStatusDraft, Version: 1,
	}
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(nil, domain.ErrNotFound)
	repo.On("ListByYear", mock.Anything, orgID, 2025, false).Return([]domain.ReceiptRange{draft}, nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	// A book that was never activated is missing, not full.
	assert.ErrorIs(t, err, domain.ErrNoActiveRange)
}

func TestRangeService_Allocate_SixthCallAgainstExhaustedBook(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	// Five-number book: every call reads the fresh cursor, the fifth
	// write flips the status to exhausted.
	for i := 1; i <= 5; i++ {
		rng := &domain.ReceiptRange{
			OrgID: orgID, ID: "2025-A", Year: 2025,
			StartNo: 1, EndNo: 5, NextNo: i,
			Status: domain.RangeStatusActive, Version: int64(i),
		}
		repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(rng, nil).Once()
		repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(i), i, i+1, i == 5).Return(nil).Once()
	}

	for i := 1; i <= 5; i++ {
		alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("2025-%05d", i), alloc.ReceiptNo)
	}

	// The exhausted book no longer matches the active lookup, but the
	// sixth call must still report it as full, not missing.
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(nil, domain.ErrNotFound).Once()
	repo.On("ListByYear", mock.Anything, orgID, 2025, false).Return([]domain.ReceiptRange{{
		OrgID: orgID, ID: "2025-A", Year: 2025,
		StartNo: 1, EndNo: 5, NextNo: 6,
		Status: domain.RangeStatusExhausted, Version: 6,
	}}, nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrRangeExhausted)
	repo.AssertExpectations(t)
}

func TestRangeService_Allocate_Exhausted(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	rng := activeRange(orgID, 2025)
	rng.NextNo = 101
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(rng, nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrRangeExhausted)
	repo.AssertNotCalled(t, "CompareAndSwapNext")
}

func TestRangeService_Allocate_YearMismatch(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(activeRange(orgID, 2025), nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2024), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrYearMismatch)
}

func TestRangeService_Allocate_YearMismatch_FlexibleOverride(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	rng := activeRange(orgID, 2025)
	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(rng, nil)
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(3), 1, 2, false).Return(nil)

	// Backdated entry from last year, allowed through in flexible mode. The
	// number still comes from the active range's year.
	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2024), true)

	assert.NoError(t, err)
	assert.Equal(t, "2025-00001", alloc.ReceiptNo)
}

func TestRangeService_Allocate_LostRaceRetriesWithFreshRead(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	stale := activeRange(orgID, 2025)
	stale.NextNo = 42

	fresh := activeRange(orgID, 2025)
	fresh.NextNo = 43
	fresh.Version = 4

	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(stale, nil)
	// First attempt loses the race to a concurrent allocator.
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(3), 42, 43, false).
		Return(domain.ErrVersionConflict).Once()
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(fresh, nil)
	// Retry succeeds against the advanced cursor: no number is issued twice.
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(4), 43, 44, false).
		Return(nil).Once()

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.NoError(t, err)
	assert.Equal(t, "2025-00043", alloc.ReceiptNo)
	repo.AssertExpectations(t)
}

func TestRangeService_Allocate_RetryBudgetExceeded(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	rng := activeRange(orgID, 2025)
	rng.NextNo = 42

	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(rng, nil)
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ErrVersionConflict)
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(rng, nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrAllocationConflict)
}

func TestRangeService_Allocate_RangeExhaustedDuringRetry(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	stale := activeRange(orgID, 2025)
	stale.NextNo = 100

	exhausted := activeRange(orgID, 2025)
	exhausted.NextNo = 101
	exhausted.Version = 4
	exhausted.Status = domain.RangeStatusExhausted

	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(stale, nil)
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(3), 100, 101, true).
		Return(domain.ErrVersionConflict)
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(exhausted, nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrRangeExhausted)
}

func TestRangeService_Allocate_RangeLockedDuringRetry(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	stale := activeRange(orgID, 2025)

	locked := activeRange(orgID, 2025)
	locked.Version = 4
	locked.Status = domain.RangeStatusLocked

	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(stale, nil)
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(3), 1, 2, false).
		Return(domain.ErrVersionConflict)
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(locked, nil)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrRangeNotActive)
}

func TestRangeService_Allocate_RangeDeletedDuringRetry(t *testing.T) {
	repo := new(mocks.MockRangeRepo)
	svc := newRangeService(repo)
	orgID := uuid.New()

	repo.On("GetActiveForYear", mock.Anything, orgID, 2025).Return(activeRange(orgID, 2025), nil)
	repo.On("CompareAndSwapNext", mock.Anything, orgID, "2025-A", int64(3), 1, 2, false).
		Return(domain.ErrVersionConflict)
	repo.On("Get", mock.Anything, orgID, "2025-A").Return(nil, domain.ErrNotFound)

	alloc, err := svc.Allocate(context.Background(), orgID, 2025, donationDate(2025), false)

	assert.Nil(t, alloc)
	assert.ErrorIs(t, err, domain.ErrRangeDeleted)
}
