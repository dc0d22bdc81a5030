package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fractioncar/internal/app/actor"
	"fractioncar/internal/app/policies"
	"fractioncar/internal/app/services/availability"
	domainbooking "fractioncar/internal/domain/booking"
	"fractioncar/internal/domain/car"
	"fractioncar/internal/domain/shared/daterange"
	"fractioncar/internal/domain/shared/faults"
)

// Service owns the booking lifecycle. Availability is re-validated at write
// time, not just when the user first looked, to narrow the race window
// between concurrent requests. Notifications are dispatched after the write
// and never fail the primary operation.
type Service struct {
	Bookings     domainbooking.Repository
	Cars         car.Repository
	Availability *availability.Service
	Notifier     policies.Notifier
	Email        policies.EmailSender
	Logger       *slog.Logger
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type CreateParams struct {
	CarID  string
	UserID string
	From   time.Time
	To     time.Time
}

func (s *Service) Create(ctx context.Context, p CreateParams, by actor.Actor) (*domainbooking.Booking, error) {
	r, err := daterange.New(p.From, p.To)
	if err != nil {
		return nil, err
	}
	if _, err := s.Cars.ByID(ctx, p.CarID); err != nil {
		return nil, fmt.Errorf("booking: car %s: %w", p.CarID, err)
	}
	check, err := s.Availability.Check(ctx, p.CarID, r)
	if err != nil {
		return nil, err
	}
	if !check.Available {
		return nil, fmt.Errorf("booking: car %s is not free from %s to %s: %w",
			p.CarID, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly), faults.ErrConflict)
	}

	now := s.now()
	b := &domainbooking.Booking{
		ID:        uuid.NewString(),
		CarID:     p.CarID,
		UserID:    p.UserID,
		Range:     r,
		Status:    domainbooking.StatusAccepted,
		CreatedBy: by.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Bookings.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("booking: insert: %w", err)
	}
	s.dispatch(ctx, b, "booking.created")
	return b, nil
}

type UpdateParams struct {
	CarID *string
	From  *time.Time
	To    *time.Time
}

func (s *Service) Update(ctx context.Context, id string, p UpdateParams, by actor.Actor) (*domainbooking.Booking, error) {
	if !by.Privileged() {
		return nil, fmt.Errorf("booking: update requires an admin role: %w", faults.ErrForbidden)
	}
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	carID := b.CarID
	if p.CarID != nil {
		carID = *p.CarID
	}
	r := b.Range
	if p.From != nil || p.To != nil {
		from, to := b.Range.From, b.Range.To
		if p.From != nil {
			from = *p.From
		}
		if p.To != nil {
			to = *p.To
		}
		r, err = daterange.New(from, to)
		if err != nil {
			return nil, err
		}
	}

	if carID != b.CarID || !r.From.Equal(b.Range.From) || !r.To.Equal(b.Range.To) {
		check, err := s.Availability.CheckExcluding(ctx, carID, r, b.ID)
		if err != nil {
			return nil, err
		}
		if !check.Available {
			return nil, fmt.Errorf("booking: car %s is not free from %s to %s: %w",
				carID, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly), faults.ErrConflict)
		}
	}

	b.CarID = carID
	b.Range = r
	b.UpdatedAt = s.now()
	if err := s.Bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("booking: update: %w", err)
	}
	return b, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domainbooking.Status, by actor.Actor) (*domainbooking.Booking, error) {
	if !by.Privileged() {
		return nil, fmt.Errorf("booking: status change requires an admin role: %w", faults.ErrForbidden)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("booking: unknown status %q: %w", status, faults.ErrPolicy)
	}
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == status {
		return b, nil
	}
	now := s.now()
	b.Status = status
	b.StatusChangedBy = by.ID
	b.StatusChangedAt = now
	b.UpdatedAt = now
	if err := s.Bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("booking: update status: %w", err)
	}
	s.dispatch(ctx, b, "booking.status_changed")
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string, by actor.Actor) error {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !by.Privileged() && b.UserID != by.ID {
		return fmt.Errorf("booking: only the owner or an admin may delete: %w", faults.ErrForbidden)
	}
	// Hard delete. Bookings never consumed token counters, so nothing to
	// give back to the inventory gate.
	return s.Bookings.Delete(ctx, id)
}

func (s *Service) ListByCar(ctx context.Context, carID string) ([]*domainbooking.Booking, error) {
	return s.Bookings.ListByCar(ctx, carID)
}

// dispatch fans the booking event out to the notification sink and mail,
// detached from the request so a slow or failing sink cannot undo the write.
func (s *Service) dispatch(ctx context.Context, b *domainbooking.Booking, event string) {
	if s.Notifier == nil && s.Email == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if s.Notifier != nil {
			n := policies.Notification{
				Recipient: b.UserID,
				Audience:  "user",
				Event:     event,
				Title:     "Booking update",
				Message: fmt.Sprintf("Booking for car %s from %s to %s is %s",
					b.CarID, b.Range.From.Format(time.DateOnly), b.Range.To.Format(time.DateOnly), b.Status),
				Data: map[string]any{"booking_id": b.ID, "car_id": b.CarID},
			}
			if err := s.Notifier.Send(ctx, n); err != nil && s.Logger != nil {
				s.Logger.Error("booking notification failed", "booking_id", b.ID, "event", event, "error", err)
			}
		}
		if s.Email != nil {
			subject := fmt.Sprintf("Your booking is %s", b.Status)
			body := fmt.Sprintf("Car %s, %s to %s.", b.CarID,
				b.Range.From.Format(time.DateOnly), b.Range.To.Format(time.DateOnly))
			if err := s.Email.Send(ctx, b.UserID, subject, body); err != nil && s.Logger != nil {
				s.Logger.Error("booking email failed", "booking_id", b.ID, "event", event, "error", err)
			}
		}
	}()
}
