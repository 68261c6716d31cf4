package service

import (
	"context"
	"errors"
	"strings"

	"github.com/josiahuma/ovipoint/internal/capacity"
	"github.com/josiahuma/ovipoint/internal/metrics"
	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/josiahuma/ovipoint/internal/repository"
	"github.com/josiahuma/ovipoint/internal/slots"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// BookingInput is the caller-supplied part of a booking. PickupTime is
// "HH:MM" or "HH:MM:SS"; PartySize <= 0 is treated as 1.
type BookingInput struct {
	Name       string
	Phone      string
	Address    string
	PickupTime string
	PartySize  int
}

// FoundBooking pairs a booking with its event for the self-service lookup.
type FoundBooking struct {
	Booking models.Booking
	Event   models.PickupEvent
}

// BookingService is the only writer of booking rows. Every create and
// edit runs its duplicate-phone check and capacity check inside one
// transaction, after taking the event's row lock, so concurrent requests
// against the same event cannot oversubscribe a slot.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID int64, in BookingInput) (*models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID int64, in BookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, eventID int64) ([]models.Booking, error)
	FindBookings(ctx context.Context, orgID int64, date, phone string) ([]FoundBooking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	eventRepo   repository.EventRepository
	notifier    Notifier
	clock       Clock
	logger      *zerolog.Logger
}

func NewBookingService(bookingRepo repository.BookingRepository, eventRepo repository.EventRepository, notifier Notifier, clock Clock, logger *zerolog.Logger) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID int64, in BookingInput) (*models.Booking, error) {
	in = normalizeInput(in)

	pickupTime, err := slots.Normalize(in.PickupTime)
	if err != nil {
		countRejection(ErrInvalidSlot)
		return nil, ErrInvalidSlot
	}

	var (
		booking *models.Booking
		event   *models.PickupEvent
	)
	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// Lock the event row: serializes all creates/edits on this event.
		event, err = s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if event.BookingState == models.BookingsPaused {
			return ErrBookingsClosed
		}
		if event.PickupDate < s.clock.today() {
			return ErrEventPast
		}
		if !slots.Contains(event.StartTime, event.EndTime, event.IntervalMinutes, pickupTime) {
			return ErrInvalidSlot
		}

		if _, err := s.bookingRepo.FindByPhone(ctx, tx, event.ID, in.Phone, 0); err == nil {
			return ErrDuplicatePhone
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		existing, err := s.bookingRepo.FindByEventTx(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		ledger, err := capacity.Build(event, existing)
		if err != nil {
			return err
		}
		if ledger.Remaining(pickupTime) < in.PartySize {
			return ErrCapacityExceeded
		}

		booking = &models.Booking{
			PickupEventID: event.ID,
			Name:          in.Name,
			Phone:         in.Phone,
			Address:       in.Address,
			PickupTime:    pickupTime,
			PartySize:     in.PartySize,
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		countRejection(err)
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Int64("event_id", event.ID).
		Int64("booking_id", booking.ID).
		Str("slot", booking.PickupTime).
		Int("party_size", booking.PartySize).
		Msg("booking created")

	if s.notifier != nil {
		s.notifier.BookingCreated(event, booking)
	}
	return booking, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID int64, in BookingInput) (*models.Booking, error) {
	in = normalizeInput(in)

	pickupTime, err := slots.Normalize(in.PickupTime)
	if err != nil {
		countRejection(ErrInvalidSlot)
		return nil, ErrInvalidSlot
	}

	// Pre-read to learn the event id; everything is re-read under the lock.
	current, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	var (
		booking *models.Booking
		event   *models.PickupEvent
	)
	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		event, err = s.eventRepo.FindByIDForUpdate(ctx, tx, current.PickupEventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		booking, err = s.bookingRepo.FindByIDTx(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if event.BookingState == models.BookingsPaused {
			return ErrBookingsClosed
		}
		// Deliberately no past-date gate here: members may still adjust an
		// existing booking on a past-dated event.
		if !slots.Contains(event.StartTime, event.EndTime, event.IntervalMinutes, pickupTime) {
			return ErrInvalidSlot
		}

		if _, err := s.bookingRepo.FindByPhone(ctx, tx, event.ID, in.Phone, booking.ID); err == nil {
			return ErrDuplicatePhone
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		existing, err := s.bookingRepo.FindByEventTx(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		// The booking's own seats do not count against its target slot, so
		// keeping the same slot and size always fits.
		others := existing[:0:0]
		for _, b := range existing {
			if b.ID != booking.ID {
				others = append(others, b)
			}
		}
		ledger, err := capacity.Build(event, others)
		if err != nil {
			return err
		}
		if ledger.Remaining(pickupTime) < in.PartySize {
			return ErrCapacityExceeded
		}

		booking.Name = in.Name
		booking.Phone = in.Phone
		booking.Address = in.Address
		booking.PickupTime = pickupTime
		booking.PartySize = in.PartySize
		return s.bookingRepo.Update(ctx, tx, booking)
	})
	if err != nil {
		countRejection(err)
		return nil, err
	}

	metrics.IncBookingUpdated()
	s.logger.Info().
		Int64("event_id", event.ID).
		Int64("booking_id", booking.ID).
		Str("slot", booking.PickupTime).
		Msg("booking updated")

	if s.notifier != nil {
		s.notifier.BookingUpdated(event, booking)
	}
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID int64) error {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	var event *models.PickupEvent
	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// Take the event lock so a cancel is ordered against concurrent
		// creates reading the ledger. Deletion itself only frees seats.
		event, err = s.eventRepo.FindByIDForUpdate(ctx, tx, booking.PickupEventID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.bookingRepo.Delete(ctx, tx, booking.ID)
	})
	if err != nil {
		return err
	}

	metrics.IncBookingCancelled()
	s.logger.Info().
		Int64("event_id", booking.PickupEventID).
		Int64("booking_id", booking.ID).
		Msg("booking cancelled")

	if s.notifier != nil && event != nil {
		s.notifier.BookingCancelled(event, booking)
	}
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, eventID int64) ([]models.Booking, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.bookingRepo.FindByEvent(ctx, eventID)
}

func (s *bookingService) FindBookings(ctx context.Context, orgID int64, date, phone string) ([]FoundBooking, error) {
	events, err := s.eventRepo.FindByOrganisationAndDate(ctx, orgID, date)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	byID := make(map[int64]models.PickupEvent, len(events))
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
		ids = append(ids, ev.ID)
	}

	bookings, err := s.bookingRepo.FindByEventsAndPhone(ctx, ids, strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}

	out := make([]FoundBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FoundBooking{Booking: b, Event: byID[b.PickupEventID]})
	}
	return out, nil
}

func normalizeInput(in BookingInput) BookingInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.PickupTime = strings.TrimSpace(in.PickupTime)
	if in.PartySize < 1 {
		in.PartySize = 1
	}
	return in
}

func countRejection(err error) {
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		metrics.IncBookingRejected("capacity_exceeded")
	case errors.Is(err, ErrDuplicatePhone):
		metrics.IncBookingRejected("duplicate_phone")
	case errors.Is(err, ErrBookingsClosed):
		metrics.IncBookingRejected("bookings_closed")
	case errors.Is(err, ErrEventPast):
		metrics.IncBookingRejected("event_past")
	case errors.Is(err, ErrInvalidSlot):
		metrics.IncBookingRejected("invalid_slot")
	}
}
