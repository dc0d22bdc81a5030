package blockdate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fractioncar/internal/app/actor"
	"fractioncar/internal/app/services/availability"
	domainblock "fractioncar/internal/domain/blockdate"
	"fractioncar/internal/domain/shared/daterange"
	"fractioncar/internal/domain/shared/faults"
)

// Service maintains maintenance/blackout windows per car. Active blocks of
// one car never overlap; deletes are soft so the audit trail survives.
type Service struct {
	Blocks       domainblock.Repository
	Availability *availability.Service
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) Create(ctx context.Context, carID string, from, to time.Time, reason string, by actor.Actor) (*domainblock.BlockedDate, error) {
	if !by.Privileged() {
		return nil, fmt.Errorf("blockdate: creating blocks requires an admin role: %w", faults.ErrForbidden)
	}
	r, err := daterange.New(from, to)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, carID, r, ""); err != nil {
		return nil, err
	}
	now := s.now()
	b := &domainblock.BlockedDate{
		ID:        uuid.NewString(),
		CarID:     carID,
		Range:     r,
		Reason:    reason,
		IsActive:  true,
		CreatedBy: by.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Blocks.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("blockdate: insert: %w", err)
	}
	return b, nil
}

func (s *Service) Update(ctx context.Context, id string, from, to time.Time, reason string, by actor.Actor) (*domainblock.BlockedDate, error) {
	if !by.Privileged() {
		return nil, fmt.Errorf("blockdate: updating blocks requires an admin role: %w", faults.ErrForbidden)
	}
	b, err := s.Blocks.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := daterange.New(from, to)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, b.CarID, r, b.ID); err != nil {
		return nil, err
	}
	b.Range = r
	if reason != "" {
		b.Reason = reason
	}
	b.UpdatedAt = s.now()
	if err := s.Blocks.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("blockdate: update: %w", err)
	}
	return b, nil
}

// Delete deactivates the block; the record is kept for history.
func (s *Service) Delete(ctx context.Context, id string, by actor.Actor) error {
	if !by.Privileged() {
		return fmt.Errorf("blockdate: deleting blocks requires an admin role: %w", faults.ErrForbidden)
	}
	b, err := s.Blocks.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.IsActive {
		return nil
	}
	b.IsActive = false
	b.UpdatedAt = s.now()
	return s.Blocks.Update(ctx, b)
}

func (s *Service) ListByCar(ctx context.Context, carID string) ([]*domainblock.BlockedDate, error) {
	return s.Blocks.ListByCar(ctx, carID)
}

// CheckAvailability is the public-facing read. It delegates to the shared
// resolver so the overlap rule stays identical to booking checks.
func (s *Service) CheckAvailability(ctx context.Context, carID string, from, to time.Time) (availability.Result, error) {
	r, err := daterange.New(from, to)
	if err != nil {
		return availability.Result{}, err
	}
	return s.Availability.Check(ctx, carID, r)
}

func (s *Service) ensureNoOverlap(ctx context.Context, carID string, r daterange.DateRange, excludeID string) error {
	active, err := s.Blocks.ListActiveByCar(ctx, carID)
	if err != nil {
		return fmt.Errorf("blockdate: list active: %w", err)
	}
	for _, other := range active {
		if other.ID == excludeID {
			continue
		}
		if other.Range.Overlaps(r) {
			return fmt.Errorf("blockdate: car %s already blocked from %s to %s: %w",
				carID, other.Range.From.Format(time.DateOnly), other.Range.To.Format(time.DateOnly), faults.ErrConflict)
		}
	}
	return nil
}
