package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "calbook/internal/bookings/errors"
	"calbook/internal/bookings/events"
	"calbook/internal/bookings/repository"
	"calbook/internal/bookings/validator"
	"calbook/pkg/config"
	apperrors "calbook/pkg/errors"
	"calbook/pkg/middleware"
	"calbook/pkg/model"
	"calbook/pkg/sanitizer"
)

const resourceName = "Booking"

type BookingService interface {
	List(ctx context.Context) ([]*model.Booking, error)
	Get(ctx context.Context, id string) (*model.Booking, error)
	Create(ctx context.Context, input *model.BookingInput) (*model.Booking, error)
	Update(ctx context.Context, id string, input *model.BookingInput) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	publisher *events.AsyncPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	async, ok := publisher.(*events.AsyncPublisher)
	if !ok {
		async = events.NewAsyncPublisher(publisher, cfg.EventPublishTimeout, cfg.EventQueueSize, cfg.Log)
	}
	return &bookingService{
		repo:      repo,
		validator: validator,
		publisher: async,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) List(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, s.storeError("Failed to retrieve bookings", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return booking, nil
}

func (s *bookingService) Create(ctx context.Context, input *model.BookingInput) (*model.Booking, error) {
	window, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	booking := &model.Booking{
		Title:     input.Title,
		Note:      input.Note,
		Start:     window.Start,
		End:       window.End,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "operation", "create", "error", err)
		return nil, s.storeError("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"operation", "create",
		"start", booking.Start,
		"end", booking.End,
	)
	s.publish(ctx, events.BookingCreated, booking.ID, booking)

	return booking, nil
}

// Update replaces every client-writable field of an existing booking. The
// id is looked up before the body is validated, so an unknown id is always
// NotFound.
func (s *bookingService) Update(ctx context.Context, id string, input *model.BookingInput) (*model.Booking, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	window, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	replacement := &model.Booking{
		ID:        existing.ID,
		Title:     input.Title,
		Note:      input.Note,
		Start:     window.Start,
		End:       window.End,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.timestamp(),
	}

	updated, err := s.repo.Replace(ctx, replacement)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID(resourceName, id)
		}
		s.cfg.Log.Error("Failed to update booking", "id", id, "operation", "update", "error", err)
		return nil, s.storeError("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated successfully",
		"id", id,
		"operation", "update",
		"start", updated.Start,
		"end", updated.End,
	)
	s.publish(ctx, events.BookingUpdated, id, updated)

	return updated, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupError(id, err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "operation", "delete")
	s.publish(ctx, events.BookingDeleted, id, nil)

	return nil
}

func (s *bookingService) prepare(input *model.BookingInput) (validator.TimeRange, error) {
	if input != nil {
		s.sanitize(input)
	}

	window, err := s.validator.Validate(input)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validator.TimeRange{}, apperrors.Validation("Booking validation failed", map[string]any{
				"fields": verrs,
			})
		}
		return validator.TimeRange{}, apperrors.Internal("Failed to validate booking", err)
	}
	return window, nil
}

func (s *bookingService) sanitize(input *model.BookingInput) {
	input.Title = sanitizer.SanitizeTitle(input.Title)
	input.Note = sanitizer.SanitizeNote(input.Note)
}

func (s *bookingService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// lookupError maps repository errors for an addressed booking. A malformed
// id cannot name an existing booking, so it is NotFound as well.
func (s *bookingService) lookupError(id string, err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound), errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.NotFoundWithID(resourceName, id)
	default:
		s.cfg.Log.Error("Booking store failure", "id", id, "error", err)
		return s.storeError("Failed to access booking", err)
	}
}

func (s *bookingService) storeError(message string, err error) error {
	if errors.Is(err, bookingserrors.ErrStoreUnavailable) {
		return apperrors.Unavailable("Booking store", err)
	}
	return apperrors.Internal(message, err)
}

// publish is best effort: the mutation is already stored, so the event is
// queued for background delivery and the caller still gets the stored record.
func (s *bookingService) publish(ctx context.Context, eventType events.Type, id string, booking *model.Booking) {
	event := events.Event{
		BookingID:     id,
		Type:          eventType,
		Booking:       booking,
		OccurredAt:    s.timestamp(),
		CorrelationID: middleware.RequestIDFromContext(ctx),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to queue booking event",
			"id", id,
			"event_type", eventType,
			"error", err,
		)
	}
}
