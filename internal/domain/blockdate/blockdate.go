package blockdate

import (
	"context"
	"time"

	"fractioncar/internal/domain/shared/daterange"
)

// BlockedDate is an admin-declared maintenance or blackout window for a car.
// Blocks are soft-deleted: IsActive flips to false and the record stays for
// audit history. Active blocks of the same car never overlap each other.
type BlockedDate struct {
	ID        string
	CarID     string
	Range     daterange.DateRange
	Reason    string
	IsActive  bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id string) (*BlockedDate, error)
	Insert(ctx context.Context, b *BlockedDate) error
	Update(ctx context.Context, b *BlockedDate) error
	ListByCar(ctx context.Context, carID string) ([]*BlockedDate, error)
	ListActiveByCar(ctx context.Context, carID string) ([]*BlockedDate, error)
}
