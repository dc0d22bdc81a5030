package memory

import (
	"context"
	"fmt"
	"sync"

	domainamc "fractioncar/internal/domain/amc"
	domainblock "fractioncar/internal/domain/blockdate"
	domainbooking "fractioncar/internal/domain/booking"
	domaincar "fractioncar/internal/domain/car"
	"fractioncar/internal/domain/shared/faults"
	domainuser "fractioncar/internal/domain/user"
)

// CarRepository is an in-memory implementation for tests and local runs.
// The mutex stands in for the store's single-document atomicity.
type CarRepository struct {
	mu    sync.RWMutex
	items map[string]*domaincar.Car
}

func NewCarRepository() *CarRepository {
	return &CarRepository{items: make(map[string]*domaincar.Car)}
}

func (r *CarRepository) ByID(ctx context.Context, id string) (*domaincar.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: car %s: %w", id, faults.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *CarRepository) List(ctx context.Context) ([]*domaincar.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cars := make([]*domaincar.Car, 0, len(r.items))
	for _, c := range r.items {
		cp := *c
		cars = append(cars, &cp)
	}
	return cars, nil
}

func (r *CarRepository) Save(ctx context.Context, c *domaincar.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *CarRepository) DecrementResource(ctx context.Context, id string, res domaincar.Resource) (*domaincar.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: car %s: %w", id, faults.ErrNotFound)
	}
	if c.Count(res) <= 0 {
		return nil, fmt.Errorf("memory: car %s has no %s left: %w", id, res, faults.ErrExhausted)
	}
	if res == domaincar.ResourceBookNow {
		c.BookNowTokens--
	} else {
		c.WaitlistTokens--
	}
	cp := *c
	return &cp, nil
}

func (r *CarRepository) IncrementResource(ctx context.Context, id string, res domaincar.Resource) (*domaincar.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: car %s: %w", id, faults.ErrNotFound)
	}
	if c.Count(res) < res.Max() {
		if res == domaincar.ResourceBookNow {
			c.BookNowTokens++
		} else {
			c.WaitlistTokens++
		}
	}
	cp := *c
	return &cp, nil
}

func (r *CarRepository) SetStopBookings(ctx context.Context, id string, stop bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return fmt.Errorf("memory: car %s: %w", id, faults.ErrNotFound)
	}
	c.StopBookings = stop
	return nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[string]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[string]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id string) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: booking %s: %w", id, faults.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return fmt.Errorf("memory: booking %s: %w", b.ID, faults.ErrNotFound)
	}
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("memory: booking %s: %w", id, faults.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

func (r *BookingRepository) ListByCar(ctx context.Context, carID string) ([]*domainbooking.Booking, error) {
	return r.list(carID, false)
}

func (r *BookingRepository) ListAcceptedByCar(ctx context.Context, carID string) ([]*domainbooking.Booking, error) {
	return r.list(carID, true)
}

func (r *BookingRepository) list(carID string, acceptedOnly bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var bookings []*domainbooking.Booking
	for _, b := range r.items {
		if b.CarID != carID {
			continue
		}
		if acceptedOnly && b.Status != domainbooking.StatusAccepted {
			continue
		}
		cp := *b
		bookings = append(bookings, &cp)
	}
	return bookings, nil
}

// BlockedDateRepository stores maintenance windows in memory.
type BlockedDateRepository struct {
	mu    sync.RWMutex
	items map[string]*domainblock.BlockedDate
}

func NewBlockedDateRepository() *BlockedDateRepository {
	return &BlockedDateRepository{items: make(map[string]*domainblock.BlockedDate)}
}

func (r *BlockedDateRepository) ByID(ctx context.Context, id string) (*domainblock.BlockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: blocked date %s: %w", id, faults.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *BlockedDateRepository) Insert(ctx context.Context, b *domainblock.BlockedDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *BlockedDateRepository) Update(ctx context.Context, b *domainblock.BlockedDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return fmt.Errorf("memory: blocked date %s: %w", b.ID, faults.ErrNotFound)
	}
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *BlockedDateRepository) ListByCar(ctx context.Context, carID string) ([]*domainblock.BlockedDate, error) {
	return r.list(carID, false)
}

func (r *BlockedDateRepository) ListActiveByCar(ctx context.Context, carID string) ([]*domainblock.BlockedDate, error) {
	return r.list(carID, true)
}

func (r *BlockedDateRepository) list(carID string, activeOnly bool) ([]*domainblock.BlockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var blocks []*domainblock.BlockedDate
	for _, b := range r.items {
		if b.CarID != carID {
			continue
		}
		if activeOnly && !b.IsActive {
			continue
		}
		cp := *b
		blocks = append(blocks, &cp)
	}
	return blocks, nil
}

// AMCRepository stores maintenance charges in memory.
type AMCRepository struct {
	mu    sync.RWMutex
	items map[string]*domainamc.AMC
}

func NewAMCRepository() *AMCRepository {
	return &AMCRepository{items: make(map[string]*domainamc.AMC)}
}

func (r *AMCRepository) ByID(ctx context.Context, id string) (*domainamc.AMC, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: amc %s: %w", id, faults.ErrNotFound)
	}
	return copyAMC(a), nil
}

func (r *AMCRepository) List(ctx context.Context) ([]*domainamc.AMC, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]*domainamc.AMC, 0, len(r.items))
	for _, a := range r.items {
		records = append(records, copyAMC(a))
	}
	return records, nil
}

func (r *AMCRepository) Save(ctx context.Context, a *domainamc.AMC) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = copyAMC(a)
	return nil
}

func copyAMC(a *domainamc.AMC) *domainamc.AMC {
	cp := *a
	cp.Installments = make([]domainamc.Installment, len(a.Installments))
	copy(cp.Installments, a.Installments)
	return &cp
}

// UserRepository stores users in memory.
type UserRepository struct {
	mu    sync.RWMutex
	items map[string]*domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[string]*domainuser.User)}
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *UserRepository) ByID(ctx context.Context, id string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: user %s: %w", id, faults.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) ListKYCPending(ctx context.Context) ([]*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []*domainuser.User
	for _, u := range r.items {
		if u.KYCStatus != domainuser.KYCPending || u.Status != domainuser.StatusActive {
			continue
		}
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}
