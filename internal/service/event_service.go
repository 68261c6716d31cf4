package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/josiahuma/ovipoint/internal/repository"
	"github.com/josiahuma/ovipoint/internal/slots"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// EventInput carries the admin-supplied event definition. Times are
// "HH:MM" or "HH:MM:SS", dates "YYYY-MM-DD".
type EventInput struct {
	Title           string
	Capacity        int
	StartTime       string
	EndTime         string
	IntervalMinutes int
}

// EventService owns event CRUD, the open/paused gate and the
// past/upcoming classification.
type EventService interface {
	// CreateEvents creates one event per date, all sharing the same
	// definition.
	CreateEvents(ctx context.Context, orgID int64, in EventInput, dates []string) ([]*models.PickupEvent, error)
	GetEvent(ctx context.Context, id int64) (*models.PickupEvent, error)
	ListEvents(ctx context.Context, orgID int64) ([]models.PickupEvent, error)
	ListUpcomingEvents(ctx context.Context, orgID int64) ([]models.PickupEvent, error)
	UpdateEvent(ctx context.Context, actorOrgID, eventID int64, in EventInput, date string) (*models.PickupEvent, error)
	SetBookingsOpen(ctx context.Context, actorOrgID, eventID int64, open bool) error
	// DeleteEvent removes the event and all its bookings in one
	// transaction; no state exists where one survives without the other.
	DeleteEvent(ctx context.Context, actorOrgID, eventID int64) error
}

type eventService struct {
	eventRepo   repository.EventRepository
	bookingRepo repository.BookingRepository
	notifier    Notifier
	clock       Clock
	logger      *zerolog.Logger
}

func NewEventService(eventRepo repository.EventRepository, bookingRepo repository.BookingRepository, notifier Notifier, clock Clock, logger *zerolog.Logger) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
	}
}

func (s *eventService) CreateEvents(ctx context.Context, orgID int64, in EventInput, dates []string) ([]*models.PickupEvent, error) {
	in, err := validateEventInput(in)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: at least one date is required", ErrInvalidEventConfig)
	}

	events := make([]*models.PickupEvent, 0, len(dates))
	for _, d := range dates {
		date, err := normalizeDate(d)
		if err != nil {
			return nil, err
		}
		events = append(events, &models.PickupEvent{
			OrganisationID:  orgID,
			Title:           in.Title,
			PickupDate:      date,
			Capacity:        in.Capacity,
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			IntervalMinutes: in.IntervalMinutes,
			BookingState:    models.BookingsOpen,
		})
	}

	if err := s.eventRepo.CreateBatch(ctx, events); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("organisation_id", orgID).
		Int("count", len(events)).
		Str("title", in.Title).
		Msg("events created")
	return events, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*models.PickupEvent, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, orgID int64) ([]models.PickupEvent, error) {
	return s.eventRepo.FindByOrganisation(ctx, orgID)
}

func (s *eventService) ListUpcomingEvents(ctx context.Context, orgID int64) ([]models.PickupEvent, error) {
	events, err := s.eventRepo.FindByOrganisation(ctx, orgID)
	if err != nil {
		return nil, err
	}
	today := s.clock.today()
	upcoming := events[:0:0]
	for _, ev := range events {
		if ev.PickupDate >= today {
			upcoming = append(upcoming, ev)
		}
	}
	return upcoming, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actorOrgID, eventID int64, in EventInput, date string) (*models.PickupEvent, error) {
	in, err := validateEventInput(in)
	if err != nil {
		return nil, err
	}
	normDate, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	event, err := s.getOwnedEvent(ctx, actorOrgID, eventID)
	if err != nil {
		return nil, err
	}

	event.Title = in.Title
	event.PickupDate = normDate
	event.Capacity = in.Capacity
	event.StartTime = in.StartTime
	event.EndTime = in.EndTime
	event.IntervalMinutes = in.IntervalMinutes

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("event_id", event.ID).Msg("event updated")
	return event, nil
}

func (s *eventService) SetBookingsOpen(ctx context.Context, actorOrgID, eventID int64, open bool) error {
	event, err := s.getOwnedEvent(ctx, actorOrgID, eventID)
	if err != nil {
		return err
	}

	state := models.BookingsPaused
	if open {
		state = models.BookingsOpen
	}
	if err := s.eventRepo.UpdateBookingState(ctx, event.ID, state); err != nil {
		return err
	}

	s.logger.Info().Int64("event_id", event.ID).Str("state", string(state)).Msg("booking state changed")
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actorOrgID, eventID int64) error {
	if _, err := s.getOwnedEvent(ctx, actorOrgID, eventID); err != nil {
		return err
	}

	var (
		event   *models.PickupEvent
		removed int
	)
	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		event, err = s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		bookings, err := s.bookingRepo.FindByEventTx(ctx, tx, eventID)
		if err != nil {
			return err
		}
		removed = len(bookings)

		if err := s.bookingRepo.DeleteByEvent(ctx, tx, eventID); err != nil {
			return err
		}
		return s.eventRepo.Delete(ctx, tx, eventID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("event_id", eventID).
		Int("bookings_removed", removed).
		Msg("event deleted")

	if s.notifier != nil {
		s.notifier.EventDeleted(event, removed)
	}
	return nil
}

func (s *eventService) getOwnedEvent(ctx context.Context, actorOrgID, eventID int64) (*models.PickupEvent, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.OrganisationID != actorOrgID {
		return nil, ErrForbidden
	}
	return event, nil
}

func validateEventInput(in EventInput) (EventInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, fmt.Errorf("%w: title is required", ErrInvalidEventConfig)
	}
	if in.Capacity <= 0 {
		return in, fmt.Errorf("%w: capacity must be greater than 0", ErrInvalidEventConfig)
	}
	if in.IntervalMinutes <= 0 {
		return in, fmt.Errorf("%w: interval minutes must be greater than 0", ErrInvalidEventConfig)
	}

	start, err := slots.Normalize(in.StartTime)
	if err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidEventConfig, err)
	}
	end, err := slots.Normalize(in.EndTime)
	if err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidEventConfig, err)
	}
	if end <= start {
		return in, fmt.Errorf("%w: end time must be after start time", ErrInvalidEventConfig)
	}

	in.StartTime = start
	in.EndTime = end
	return in, nil
}

func normalizeDate(d string) (string, error) {
	d = strings.TrimSpace(d)
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidEventConfig)
	}
	return d, nil
}
