package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainblock "fractioncar/internal/domain/blockdate"
	domainbooking "fractioncar/internal/domain/booking"
	"fractioncar/internal/domain/shared/daterange"
	"fractioncar/internal/domain/shared/faults"
	"fractioncar/internal/infra/storage/memory"
)

func d(day int) time.Time {
	return time.Date(2026, time.June, day, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T) (*Service, *memory.BookingRepository, *memory.BlockedDateRepository) {
	t.Helper()
	bookings := memory.NewBookingRepository()
	blocks := memory.NewBlockedDateRepository()
	return New(bookings, blocks), bookings, blocks
}

func TestCheckRejectsInvertedRange(t *testing.T) {
	svc, _, _ := seed(t)
	_, err := svc.Check(context.Background(), "car-1", daterange.DateRange{From: d(10), To: d(5)})
	require.ErrorIs(t, err, faults.ErrInvalidRange)
}

func TestCheckReportsBookingAndBlockConflicts(t *testing.T) {
	svc, bookings, blocks := seed(t)
	ctx := context.Background()

	require.NoError(t, bookings.Insert(ctx, &domainbooking.Booking{
		ID: "b-1", CarID: "car-1", UserID: "u-1",
		Range:  daterange.DateRange{From: d(1), To: d(5)},
		Status: domainbooking.StatusAccepted,
	}))
	require.NoError(t, bookings.Insert(ctx, &domainbooking.Booking{
		ID: "b-2", CarID: "car-1", UserID: "u-2",
		Range:  daterange.DateRange{From: d(1), To: d(5)},
		Status: domainbooking.StatusRejected,
	}))
	require.NoError(t, blocks.Insert(ctx, &domainblock.BlockedDate{
		ID: "blk-1", CarID: "car-1",
		Range:    daterange.DateRange{From: d(8), To: d(10)},
		IsActive: true,
	}))

	res, err := svc.Check(ctx, "car-1", daterange.DateRange{From: d(4), To: d(9)})
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, res.ConflictingBookings, 1, "rejected bookings must not conflict")
	assert.Equal(t, "b-1", res.ConflictingBookings[0].ID)
	require.Len(t, res.ConflictingBlocks, 1)
	assert.Equal(t, "blk-1", res.ConflictingBlocks[0].ID)
}

func TestCheckIgnoresOtherCarsAndInactiveBlocks(t *testing.T) {
	svc, bookings, blocks := seed(t)
	ctx := context.Background()

	require.NoError(t, bookings.Insert(ctx, &domainbooking.Booking{
		ID: "b-1", CarID: "car-2", UserID: "u-1",
		Range:  daterange.DateRange{From: d(1), To: d(5)},
		Status: domainbooking.StatusAccepted,
	}))
	require.NoError(t, blocks.Insert(ctx, &domainblock.BlockedDate{
		ID: "blk-1", CarID: "car-1",
		Range:    daterange.DateRange{From: d(1), To: d(5)},
		IsActive: false,
	}))

	res, err := svc.Check(ctx, "car-1", daterange.DateRange{From: d(2), To: d(4)})
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCheckExcludingSkipsOwnBooking(t *testing.T) {
	svc, bookings, _ := seed(t)
	ctx := context.Background()

	require.NoError(t, bookings.Insert(ctx, &domainbooking.Booking{
		ID: "b-1", CarID: "car-1", UserID: "u-1",
		Range:  daterange.DateRange{From: d(1), To: d(5)},
		Status: domainbooking.StatusAccepted,
	}))

	res, err := svc.CheckExcluding(ctx, "car-1", daterange.DateRange{From: d(2), To: d(6)}, "b-1")
	require.NoError(t, err)
	assert.True(t, res.Available)
}
