package availability

import (
	"context"
	"fmt"

	"fractioncar/internal/domain/blockdate"
	"fractioncar/internal/domain/booking"
	"fractioncar/internal/domain/shared/daterange"
)

// Result reports whether a range is free and, if not, the exact records in
// the way, so callers can present specific reasons.
type Result struct {
	Available           bool
	ConflictingBookings []*booking.Booking
	ConflictingBlocks   []*blockdate.BlockedDate
}

// Service resolves whether a car is free for a date range. Read-only; the
// booking and blocked-date services share its predicate so the overlap rule
// cannot drift between them.
type Service struct {
	Bookings booking.Repository
	Blocks   blockdate.Repository
}

func New(bookings booking.Repository, blocks blockdate.Repository) *Service {
	return &Service{Bookings: bookings, Blocks: blocks}
}

// Check resolves availability against accepted bookings and active blocks.
func (s *Service) Check(ctx context.Context, carID string, r daterange.DateRange) (Result, error) {
	return s.CheckExcluding(ctx, carID, r, "")
}

// CheckExcluding is Check with one booking left out of the conflict set, used
// when a booking's own dates are being changed.
func (s *Service) CheckExcluding(ctx context.Context, carID string, r daterange.DateRange, excludeBookingID string) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}

	accepted, err := s.Bookings.ListAcceptedByCar(ctx, carID)
	if err != nil {
		return Result{}, fmt.Errorf("availability: list bookings: %w", err)
	}
	res := Result{}
	for _, b := range accepted {
		if b.ID == excludeBookingID {
			continue
		}
		if b.Range.Overlaps(r) {
			res.ConflictingBookings = append(res.ConflictingBookings, b)
		}
	}

	blocks, err := s.Blocks.ListActiveByCar(ctx, carID)
	if err != nil {
		return Result{}, fmt.Errorf("availability: list blocked dates: %w", err)
	}
	for _, blk := range blocks {
		if blk.Range.Overlaps(r) {
			res.ConflictingBlocks = append(res.ConflictingBlocks, blk)
		}
	}

	res.Available = len(res.ConflictingBookings) == 0 && len(res.ConflictingBlocks) == 0
	return res, nil
}
