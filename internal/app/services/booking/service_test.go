package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractioncar/internal/app/actor"
	"fractioncar/internal/app/services/availability"
	domainbooking "fractioncar/internal/domain/booking"
	domaincar "fractioncar/internal/domain/car"
	"fractioncar/internal/domain/shared/faults"
	"fractioncar/internal/infra/storage/memory"
)

var (
	now   = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	admin = actor.Actor{ID: "adm-1", Role: actor.RoleAdmin}
	guest = actor.Actor{ID: "u-1", Role: actor.RoleUser}
)

func d(day int) time.Time {
	return time.Date(2026, time.October, day, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc      *Service
	bookings *memory.BookingRepository
	notifier *memory.NotifierSink
}

func seed(t *testing.T) fixture {
	t.Helper()
	cars := memory.NewCarRepository()
	require.NoError(t, cars.Save(context.Background(), &domaincar.Car{
		ID: "car-1", Name: "GT-R", WaitlistTokens: 5, BookNowTokens: 5,
	}))
	bookings := memory.NewBookingRepository()
	blocks := memory.NewBlockedDateRepository()
	notifier := memory.NewNotifierSink()
	svc := &Service{
		Bookings:     bookings,
		Cars:         cars,
		Availability: availability.New(bookings, blocks),
		Notifier:     notifier,
		Now:          func() time.Time { return now },
	}
	return fixture{svc: svc, bookings: bookings, notifier: notifier}
}

func TestCreateAcceptsByDefault(t *testing.T) {
	f := seed(t)
	b, err := f.svc.Create(context.Background(), CreateParams{
		CarID: "car-1", UserID: "u-1", From: d(1), To: d(5),
	}, guest)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusAccepted, b.Status)
	assert.Equal(t, "u-1", b.UserID)
	assert.Equal(t, now, b.CreatedAt)

	require.Eventually(t, func() bool {
		return len(f.notifier.Sent()) == 1
	}, time.Second, 10*time.Millisecond, "creation should notify the user")
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	f := seed(t)
	_, err := f.svc.Create(context.Background(), CreateParams{
		CarID: "car-1", UserID: "u-1", From: d(5), To: d(1),
	}, guest)
	require.ErrorIs(t, err, faults.ErrInvalidRange)
}

func TestCreateUnknownCar(t *testing.T) {
	f := seed(t)
	_, err := f.svc.Create(context.Background(), CreateParams{
		CarID: "ghost", UserID: "u-1", From: d(1), To: d(5),
	}, guest)
	require.ErrorIs(t, err, faults.ErrNotFound)
}

func TestNoDoubleAccept(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-1", From: d(1), To: d(3)}, guest)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-2", From: d(2), To: d(4)}, guest)
	require.ErrorIs(t, err, faults.ErrConflict)

	accepted, err := f.bookings.ListAcceptedByCar(ctx, "car-1")
	require.NoError(t, err)
	assert.Len(t, accepted, 1, "conflict must leave no partial state")
}

func TestUpdateRequiresAdmin(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-1", From: d(1), To: d(3)}, guest)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, b.ID, UpdateParams{}, guest)
	require.ErrorIs(t, err, faults.ErrForbidden)
}

func TestUpdateExcludesOwnRecordFromConflictCheck(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-1", From: d(1), To: d(3)}, guest)
	require.NoError(t, err)

	// Shifting its own range by one day overlaps only itself.
	from, to := d(2), d(4)
	updated, err := f.svc.Update(ctx, b.ID, UpdateParams{From: &from, To: &to}, admin)
	require.NoError(t, err)
	assert.Equal(t, from, updated.Range.From)
	assert.Equal(t, to, updated.Range.To)
}

func TestUpdateConflictsWithOtherBooking(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-1", From: d(1), To: d(3)}, guest)
	require.NoError(t, err)
	b2, err := f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-2", From: d(10), To: d(12)}, guest)
	require.NoError(t, err)

	from, to := d(2), d(4)
	_, err = f.svc.Update(ctx, b2.ID, UpdateParams{From: &from, To: &to}, admin)
	require.ErrorIs(t, err, faults.ErrConflict)

	unchanged, err := f.bookings.ByID(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, d(10), unchanged.Range.From, "failed update must not write")
}

func TestUpdateStatusRecordsActor(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-1", From: d(1), To: d(3)}, guest)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, b.ID, domainbooking.StatusRejected, guest)
	require.ErrorIs(t, err, faults.ErrForbidden)

	updated, err := f.svc.UpdateStatus(ctx, b.ID, domainbooking.StatusRejected, admin)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusRejected, updated.Status)
	assert.Equal(t, admin.ID, updated.StatusChangedBy)
	assert.Equal(t, now, updated.StatusChangedAt)

	// A rejected booking no longer blocks the range.
	_, err = f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-2", From: d(2), To: d(4)}, guest)
	require.NoError(t, err)
}

func TestDeleteOwnerOrAdminOnly(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateParams{CarID: "car-1", UserID: "u-1", From: d(1), To: d(3)}, guest)
	require.NoError(t, err)

	stranger := actor.Actor{ID: "u-9", Role: actor.RoleUser}
	require.ErrorIs(t, f.svc.Delete(ctx, b.ID, stranger), faults.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, b.ID, guest))

	_, err = f.bookings.ByID(ctx, b.ID)
	require.ErrorIs(t, err, faults.ErrNotFound)
}
