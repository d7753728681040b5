package repository

import (
	"context"
	"sync"

	bookingserrors "calbook/internal/bookings/errors"
	"calbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking
}

// NewMemoryBookingRepository keeps bookings in process memory. Records are
// stored and returned by value so callers cannot mutate stored state.
func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{
		bookings: make(map[string]model.Booking),
	}
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return unavailable("create", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("find", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return &booking, nil
}

func (r *memoryBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list", err)
	}

	r.mu.RLock()
	bookings := make([]*model.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		booking := b
		bookings = append(bookings, &booking)
	}
	r.mu.RUnlock()

	sortByStart(bookings)
	return bookings, nil
}

func (r *memoryBookingRepository) Replace(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("replace", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; !ok {
		return nil, bookingserrors.ErrNotFound
	}
	r.bookings[booking.ID] = *booking

	replaced := *booking
	return &replaced, nil
}

func (r *memoryBookingRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("delete", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memoryBookingRepository) Ping(ctx context.Context) error {
	return nil
}
