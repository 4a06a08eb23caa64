package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksync/studio-booking/internal/domain"
	bookingRepo "github.com/inksync/studio-booking/internal/infra/storage/booking"
	resourceRepo "github.com/inksync/studio-booking/internal/infra/storage/resource"
	waitlistRepo "github.com/inksync/studio-booking/internal/infra/storage/waitlist"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func booking(resourceID int64, startHour, endHour int) *domain.Booking {
	return &domain.Booking{
		CustomerID:   100,
		ResourceID:   resourceID,
		OfferingID:   1,
		OfferingName: "Session",
		StartTime:    day.Add(time.Duration(startHour) * time.Hour),
		EndTime:      day.Add(time.Duration(endHour) * time.Hour),
		Status:       domain.StatusScheduled,
	}
}

func TestBookingRepository_RejectsOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(NewStore())

	_, err := repo.Create(ctx, booking(1, 10, 12))
	require.NoError(t, err)

	_, err = repo.Create(ctx, booking(1, 11, 13))
	assert.ErrorIs(t, err, bookingRepo.ErrSlotNotAvailable)

	_, err = repo.Create(ctx, booking(1, 12, 14))
	assert.NoError(t, err, "adjacent booking must be accepted")

	_, err = repo.Create(ctx, booking(2, 10, 12))
	assert.NoError(t, err, "other resource is independent")
}

func TestBookingRepository_CancelReleasesInterval(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(NewStore())

	created, err := repo.Create(ctx, booking(1, 10, 12))
	require.NoError(t, err)

	require.NoError(t, repo.Cancel(ctx, created.ID, "changed plans", day))
	assert.ErrorIs(t, repo.Cancel(ctx, created.ID, "again", day), bookingRepo.ErrInvalidTransition)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "changed plans", *got.CancellationReason)

	_, err = repo.Create(ctx, booking(1, 10, 12))
	assert.NoError(t, err)
}

func TestBookingRepository_Reschedule(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(NewStore())

	first, err := repo.Create(ctx, booking(1, 10, 12))
	require.NoError(t, err)
	_, err = repo.Create(ctx, booking(1, 14, 16))
	require.NoError(t, err)

	err = repo.Reschedule(ctx, first.ID, day.Add(15*time.Hour), day.Add(17*time.Hour), day)
	assert.ErrorIs(t, err, bookingRepo.ErrSlotNotAvailable)

	// Сдвиг внутри собственного интервала не конфликтует сам с собой
	err = repo.Reschedule(ctx, first.ID, day.Add(11*time.Hour), day.Add(13*time.Hour), day)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, day.Add(11*time.Hour), got.StartTime)
}

func TestBookingRepository_CompleteEnded(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(NewStore())

	past, err := repo.Create(ctx, booking(1, 9, 10))
	require.NoError(t, err)
	_, err = repo.Create(ctx, booking(1, 15, 16))
	require.NoError(t, err)

	done, err := repo.CompleteEnded(ctx, day.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, past.ID, done[0].ID)

	got, err := repo.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tx := NewTxManager(store)
	resources := NewResourceRepository(store)
	bookings := NewBookingRepository(store)

	errBoom := errors.New("boom")
	err := tx.DoSerializable(ctx, func(ctx context.Context) error {
		if _, err := resources.Create(ctx, &domain.Resource{Name: "Ada"}); err != nil {
			return err
		}
		if _, err := bookings.Create(ctx, booking(1, 10, 11)); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = resources.GetByID(ctx, 1)
	assert.ErrorIs(t, err, resourceRepo.ErrResourceNotFound)

	list, err := bookings.List(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxManager_UncommittedIsInvisible(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tx := NewTxManager(store)
	resources := NewResourceRepository(store)

	err := tx.Do(ctx, func(txCtx context.Context) error {
		created, err := resources.Create(txCtx, &domain.Resource{Name: "Ada"})
		require.NoError(t, err)

		_, err = resources.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, resourceRepo.ErrResourceNotFound, "outside reader must not see uncommitted state")

		_, err = resources.GetByID(txCtx, created.ID)
		assert.NoError(t, err)
		return nil
	})
	require.NoError(t, err)

	_, err = resources.GetByID(ctx, 1)
	assert.NoError(t, err)
}

func TestWaitlistRepository_Deactivate(t *testing.T) {
	ctx := context.Background()
	repo := NewWaitlistRepository(NewStore())

	entry, err := repo.Create(ctx, &domain.WaitlistEntry{CustomerID: 5, Description: "koi", IsActive: true})
	require.NoError(t, err)

	bookingID := int64(42)
	require.NoError(t, repo.Deactivate(ctx, entry.ID, day, &bookingID))
	assert.ErrorIs(t, repo.Deactivate(ctx, entry.ID, day, nil), waitlistRepo.ErrEntryInactive)
	assert.ErrorIs(t, repo.Deactivate(ctx, 999, day, nil), waitlistRepo.ErrEntryNotFound)

	active, err := repo.List(ctx, domain.WaitlistFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(ctx, domain.WaitlistFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].PromotedBookingID)
	assert.Equal(t, bookingID, *all[0].PromotedBookingID)
}
