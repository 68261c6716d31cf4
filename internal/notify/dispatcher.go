// Package notify decouples booking side effects from the allocator. The
// services report committed outcomes to a Dispatcher, which fans them out
// to hooks asynchronously; a failing hook is logged and never surfaces to
// the caller.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/rs/zerolog"
)

const (
	KindBookingCreated   = "booking.created"
	KindBookingUpdated   = "booking.updated"
	KindBookingCancelled = "booking.cancelled"
	KindEventDeleted     = "event.deleted"
)

// Envelope is the message handed to every hook.
type Envelope struct {
	ID              string              `json:"id"`
	Kind            string              `json:"kind"`
	At              time.Time           `json:"at"`
	Event           *models.PickupEvent `json:"event"`
	Booking         *models.Booking     `json:"booking,omitempty"`
	RemovedBookings int                 `json:"removed_bookings,omitempty"`
}

// Hook is one delivery target (message queue, SMS, cache invalidation).
type Hook interface {
	Name() string
	Handle(ctx context.Context, e Envelope) error
}

// Dispatcher implements the services' Notifier interface.
type Dispatcher struct {
	hooks   []Hook
	timeout time.Duration
	logger  *zerolog.Logger
}

func NewDispatcher(logger *zerolog.Logger, hooks ...Hook) *Dispatcher {
	return &Dispatcher{
		hooks:   hooks,
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

func (d *Dispatcher) BookingCreated(event *models.PickupEvent, booking *models.Booking) {
	d.fire(Envelope{Kind: KindBookingCreated, Event: event, Booking: booking})
}

func (d *Dispatcher) BookingUpdated(event *models.PickupEvent, booking *models.Booking) {
	d.fire(Envelope{Kind: KindBookingUpdated, Event: event, Booking: booking})
}

func (d *Dispatcher) BookingCancelled(event *models.PickupEvent, booking *models.Booking) {
	d.fire(Envelope{Kind: KindBookingCancelled, Event: event, Booking: booking})
}

func (d *Dispatcher) EventDeleted(event *models.PickupEvent, removedBookings int) {
	d.fire(Envelope{Kind: KindEventDeleted, Event: event, RemovedBookings: removedBookings})
}

func (d *Dispatcher) fire(e Envelope) {
	e.ID = uuid.NewString()
	e.At = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		for _, h := range d.hooks {
			d.run(ctx, h, e)
		}
	}()
}

func (d *Dispatcher) run(ctx context.Context, h Hook, e Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("hook", h.Name()).
				Str("kind", e.Kind).
				Interface("panic", r).
				Msg("notification hook panicked")
		}
	}()

	if err := h.Handle(ctx, e); err != nil {
		d.logger.Error().
			Err(err).
			Str("hook", h.Name()).
			Str("kind", e.Kind).
			Str("envelope_id", e.ID).
			Msg("notification hook failed")
	}
}
