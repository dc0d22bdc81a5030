package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"fractioncar/internal/domain/car"
	"fractioncar/internal/domain/shared/faults"
)

// Service is the single gate for car token counters and the derived
// stop-bookings flag. Counter mutations go through the repository's atomic
// increment/decrement primitives; the flag is re-derived as a mandatory
// post-step of every mutation so no call site can forget it.
type Service struct {
	Cars   car.Repository
	Logger *slog.Logger
}

func New(cars car.Repository, logger *slog.Logger) *Service {
	return &Service{Cars: cars, Logger: logger}
}

// Decrement takes one token from the pool and re-derives stop-bookings.
// A failed flag recompute is logged, not rolled back: the counter mutation
// already happened atomically and stays.
func (s *Service) Decrement(ctx context.Context, carID string, r car.Resource) (*car.Car, error) {
	c, err := s.Cars.DecrementResource(ctx, carID, r)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, c)
	return c, nil
}

// Increment returns one token to the pool, clamped at the pool maximum.
func (s *Service) Increment(ctx context.Context, carID string, r car.Resource) (*car.Car, error) {
	c, err := s.Cars.IncrementResource(ctx, carID, r)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, c)
	return c, nil
}

// RecomputeStopBookings forces the flag true when both pools are empty.
// The flag is only authoritative in that direction: admins may stop bookings
// manually while tokens remain, so a non-exhausted car is left alone.
func (s *Service) RecomputeStopBookings(ctx context.Context, carID string) error {
	c, err := s.Cars.ByID(ctx, carID)
	if err != nil {
		return err
	}
	if c.Exhausted() && !c.StopBookings {
		return s.Cars.SetStopBookings(ctx, carID, true)
	}
	return nil
}

// SetStopBookings is the admin override. Re-enabling bookings while both
// pools are empty is rejected: resources must exist first.
func (s *Service) SetStopBookings(ctx context.Context, carID string, stop bool) error {
	c, err := s.Cars.ByID(ctx, carID)
	if err != nil {
		return err
	}
	if !stop && c.Exhausted() {
		return fmt.Errorf("inventory: car %s has no tokens left, bookings cannot be re-enabled: %w", carID, faults.ErrPolicy)
	}
	return s.Cars.SetStopBookings(ctx, carID, stop)
}

// ReconcileResult aggregates one reconciliation pass.
type ReconcileResult struct {
	TotalChecked int
	Updated      int
	ErrorCount   int
}

// ReconcileAll re-derives the flag for every car. Runs on a timer as a
// safety net for the accepted inconsistency window between a counter
// mutation and its flag recompute.
func (s *Service) ReconcileAll(ctx context.Context) (ReconcileResult, error) {
	cars, err := s.Cars.List(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("inventory: list cars: %w", err)
	}
	res := ReconcileResult{TotalChecked: len(cars)}
	for _, c := range cars {
		if !c.Exhausted() || c.StopBookings {
			continue
		}
		if err := s.Cars.SetStopBookings(ctx, c.ID, true); err != nil {
			res.ErrorCount++
			if s.Logger != nil {
				s.Logger.Error("stop-bookings reconcile failed", "car_id", c.ID, "error", err)
			}
			continue
		}
		res.Updated++
	}
	return res, nil
}

func (s *Service) recompute(ctx context.Context, c *car.Car) {
	if !c.Exhausted() || c.StopBookings {
		return
	}
	if err := s.Cars.SetStopBookings(ctx, c.ID, true); err != nil {
		if s.Logger != nil {
			s.Logger.Error("stop-bookings recompute failed", "car_id", c.ID, "error", err)
		}
		return
	}
	c.StopBookings = true
}
