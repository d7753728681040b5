package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	bookingserrors "calbook/internal/bookings/errors"
	"calbook/pkg/model"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TableName      = "bookings"
	StartIndexName = "bookings_start_at_idx"
)

// BookingRow maps a booking onto the bookings table. The time columns are
// suffixed because "end" is reserved in SQL.
type BookingRow struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID        string    `bun:"id,pk"`
	Title     string    `bun:"title,notnull"`
	Note      string    `bun:"note,notnull"`
	StartAt   time.Time `bun:"start_at,notnull"`
	EndAt     time.Time `bun:"end_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func toRow(b *model.Booking) *BookingRow {
	return &BookingRow{
		ID:        b.ID,
		Title:     b.Title,
		Note:      b.Note,
		StartAt:   b.Start,
		EndAt:     b.End,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (row *BookingRow) toModel() *model.Booking {
	return &model.Booking{
		ID:        row.ID,
		Title:     row.Title,
		Note:      row.Note,
		Start:     row.StartAt.UTC(),
		End:       row.EndAt.UTC(),
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

// EnsureSchema creates the bookings table and its start index when they do
// not exist yet.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*BookingRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create %s table: %w", TableName, err)
	}

	if _, err := db.NewCreateIndex().
		Model((*BookingRow)(nil)).
		Index(StartIndexName).
		Column("start_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create %s index: %w", StartIndexName, err)
	}

	return nil
}

type sqlBookingRepository struct {
	db           *bun.DB
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewSQLBookingRepository serves both postgres and sqlite; bun picks the
// dialect from db.
func NewSQLBookingRepository(db *bun.DB, readTimeout, writeTimeout time.Duration) BookingRepository {
	return &sqlBookingRepository{
		db:           db,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (r *sqlBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.db.NewInsert().Model(toRow(booking)).Exec(ctx); err != nil {
		return unavailable("create", err)
	}
	return nil
}

func (r *sqlBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	var row BookingRow
	err := r.db.NewSelect().Model(&row).Where("b.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, unavailable("find", err)
	}

	return row.toModel(), nil
}

func (r *sqlBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	var rows []BookingRow
	err := r.db.NewSelect().
		Model(&rows).
		Order("b.start_at ASC", "b.id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, unavailable("list", err)
	}

	bookings := make([]*model.Booking, 0, len(rows))
	for i := range rows {
		bookings = append(bookings, rows[i].toModel())
	}
	return bookings, nil
}

func (r *sqlBookingRepository) Replace(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	row := toRow(booking)
	result, err := r.db.NewUpdate().
		Model(row).
		Column("title", "note", "start_at", "end_at", "created_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, unavailable("replace", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, unavailable("replace", err)
	}
	if affected == 0 {
		return nil, bookingserrors.ErrNotFound
	}

	return row.toModel(), nil
}

func (r *sqlBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	result, err := r.db.NewDelete().
		Model((*BookingRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return unavailable("delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("delete", err)
	}
	if affected == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *sqlBookingRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", bookingserrors.ErrStoreUnavailable, err)
	}
	return nil
}
