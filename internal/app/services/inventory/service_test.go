package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincar "fractioncar/internal/domain/car"
	"fractioncar/internal/domain/shared/faults"
	"fractioncar/internal/infra/storage/memory"
)

func seed(t *testing.T, c *domaincar.Car) (*Service, *memory.CarRepository) {
	t.Helper()
	cars := memory.NewCarRepository()
	require.NoError(t, cars.Save(context.Background(), c))
	return New(cars, nil), cars
}

func TestDecrementAtZeroFails(t *testing.T) {
	svc, _ := seed(t, &domaincar.Car{ID: "car-1", WaitlistTokens: 0, BookNowTokens: 3})
	_, err := svc.Decrement(context.Background(), "car-1", domaincar.ResourceWaitlist)
	require.ErrorIs(t, err, faults.ErrExhausted)
}

func TestIncrementClampsAtMax(t *testing.T) {
	svc, _ := seed(t, &domaincar.Car{ID: "car-1", WaitlistTokens: domaincar.MaxWaitlistTokens, BookNowTokens: 2})
	c, err := svc.Increment(context.Background(), "car-1", domaincar.ResourceWaitlist)
	require.NoError(t, err)
	assert.Equal(t, domaincar.MaxWaitlistTokens, c.WaitlistTokens)

	c, err = svc.Increment(context.Background(), "car-1", domaincar.ResourceBookNow)
	require.NoError(t, err)
	assert.Equal(t, 3, c.BookNowTokens)
}

func TestStopBookingsDerivedOnExhaustion(t *testing.T) {
	svc, cars := seed(t, &domaincar.Car{ID: "car-1", WaitlistTokens: 1, BookNowTokens: 1})
	ctx := context.Background()

	c, err := svc.Decrement(ctx, "car-1", domaincar.ResourceWaitlist)
	require.NoError(t, err)
	assert.False(t, c.StopBookings, "one pool left, bookings stay open")

	c, err = svc.Decrement(ctx, "car-1", domaincar.ResourceBookNow)
	require.NoError(t, err)
	assert.True(t, c.StopBookings, "both pools empty forces the flag")

	stored, err := cars.ByID(ctx, "car-1")
	require.NoError(t, err)
	assert.True(t, stored.StopBookings)
}

func TestManualReenableGatedByResources(t *testing.T) {
	svc, _ := seed(t, &domaincar.Car{ID: "car-1", WaitlistTokens: 0, BookNowTokens: 0, StopBookings: true})
	ctx := context.Background()

	err := svc.SetStopBookings(ctx, "car-1", false)
	require.ErrorIs(t, err, faults.ErrPolicy)

	// Manual stop with resources remaining is always allowed.
	require.NoError(t, svc.SetStopBookings(ctx, "car-1", true))

	_, err = svc.Increment(ctx, "car-1", domaincar.ResourceWaitlist)
	require.NoError(t, err)
	require.NoError(t, svc.SetStopBookings(ctx, "car-1", false))
}

func TestRecomputeLeavesNonExhaustedCarsAlone(t *testing.T) {
	svc, cars := seed(t, &domaincar.Car{ID: "car-1", WaitlistTokens: 2, BookNowTokens: 0, StopBookings: true})
	ctx := context.Background()

	// Admin stopped bookings manually; recompute must not flip it back.
	require.NoError(t, svc.RecomputeStopBookings(ctx, "car-1"))
	c, err := cars.ByID(ctx, "car-1")
	require.NoError(t, err)
	assert.True(t, c.StopBookings)
}

func TestReconcileAll(t *testing.T) {
	cars := memory.NewCarRepository()
	ctx := context.Background()
	require.NoError(t, cars.Save(ctx, &domaincar.Car{ID: "car-1", WaitlistTokens: 0, BookNowTokens: 0}))
	require.NoError(t, cars.Save(ctx, &domaincar.Car{ID: "car-2", WaitlistTokens: 3, BookNowTokens: 0}))
	require.NoError(t, cars.Save(ctx, &domaincar.Car{ID: "car-3", WaitlistTokens: 0, BookNowTokens: 0, StopBookings: true}))
	svc := New(cars, nil)

	res, err := svc.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalChecked)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.ErrorCount)

	c, err := cars.ByID(ctx, "car-1")
	require.NoError(t, err)
	assert.True(t, c.StopBookings)
	c, err = cars.ByID(ctx, "car-2")
	require.NoError(t, err)
	assert.False(t, c.StopBookings)
}
