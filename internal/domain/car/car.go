package car

import (
	"context"
	"time"
)

const (
	MaxWaitlistTokens = 20
	MaxBookNowTokens  = 12
)

// Resource names a countable pool on a car.
type Resource string

const (
	ResourceWaitlist Resource = "WAITLIST_TOKEN"
	ResourceBookNow  Resource = "BOOK_NOW_TOKEN"
)

func (r Resource) Max() int {
	if r == ResourceBookNow {
		return MaxBookNowTokens
	}
	return MaxWaitlistTokens
}

// Car is the resource container shares and bookings hang off.
// StopBookings is derived: it must be true whenever both token pools are
// empty, and may not be manually cleared while they stay empty.
type Car struct {
	ID             string
	Name           string
	WaitlistTokens int
	BookNowTokens  int
	StopBookings   bool
	ContractYears  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c *Car) Exhausted() bool {
	return c.WaitlistTokens <= 0 && c.BookNowTokens <= 0
}

func (c *Car) Count(r Resource) int {
	if r == ResourceBookNow {
		return c.BookNowTokens
	}
	return c.WaitlistTokens
}

type Repository interface {
	ByID(ctx context.Context, id string) (*Car, error)
	List(ctx context.Context) ([]*Car, error)
	Save(ctx context.Context, c *Car) error
	// DecrementResource atomically takes one token from the pool and returns
	// the car after the mutation. It fails with faults.ErrExhausted when the
	// pool is already empty; the check and the decrement are a single store
	// operation, never read-modify-write in application code.
	DecrementResource(ctx context.Context, id string, r Resource) (*Car, error)
	// IncrementResource atomically returns one token to the pool, clamped at
	// the pool's maximum. Incrementing a full pool is a no-op, not an error.
	IncrementResource(ctx context.Context, id string, r Resource) (*Car, error)
	SetStopBookings(ctx context.Context, id string, stop bool) error
}
