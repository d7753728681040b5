package repository

import (
	"context"
	"fmt"
	"sort"

	bookingserrors "calbook/internal/bookings/errors"
	"calbook/pkg/config"
	"calbook/pkg/model"
)

// BookingRepository persists whole booking records. Replace swaps every
// field except the id and reports ErrNotFound when no record matched.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context) ([]*model.Booking, error)
	Replace(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// NewBookingRepository picks the implementation for cfg.StoreDriver. The
// store connection must already be open (see config.SetStore).
func NewBookingRepository(cfg *config.Config) (BookingRepository, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		if cfg.Client.Mongo == nil {
			return nil, fmt.Errorf("mongo client is not connected")
		}
		return NewMongoBookingRepository(cfg), nil
	case config.StorePostgres, config.StoreSQLite:
		if cfg.Client.SQL == nil {
			return nil, fmt.Errorf("%s database is not connected", cfg.StoreDriver)
		}
		return NewSQLBookingRepository(cfg.Client.SQL, cfg.ReadTimeout, cfg.WriteTimeout), nil
	case config.StoreMemory:
		return NewMemoryBookingRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: failed to %s booking: %w", bookingserrors.ErrStoreUnavailable, op, err)
}

// sortByStart orders bookings by start then id, which is the order every
// implementation returns from FindAll.
func sortByStart(bookings []*model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].Start.Before(bookings[j].Start)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
