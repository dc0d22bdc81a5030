package booking

import (
	"context"
	"time"

	"fractioncar/internal/domain/shared/daterange"
)

type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Booking reserves a car for a closed date range. Only accepted bookings
// participate in overlap checks.
type Booking struct {
	ID              string
	CarID           string
	UserID          string
	Range           daterange.DateRange
	Status          Status
	CreatedBy       string
	StatusChangedBy string
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Repository interface {
	ByID(ctx context.Context, id string) (*Booking, error)
	Insert(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error
	ListByCar(ctx context.Context, carID string) ([]*Booking, error)
	ListAcceptedByCar(ctx context.Context, carID string) ([]*Booking, error)
}
