package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingHook struct {
	name string
	err  error

	mu        sync.Mutex
	envelopes []Envelope
	done      chan struct{}
}

func newCapturingHook(name string, err error) *capturingHook {
	return &capturingHook{name: name, err: err, done: make(chan struct{}, 16)}
}

func (h *capturingHook) Name() string { return h.name }

func (h *capturingHook) Handle(_ context.Context, e Envelope) error {
	h.mu.Lock()
	h.envelopes = append(h.envelopes, e)
	h.mu.Unlock()
	h.done <- struct{}{}
	return h.err
}

func (h *capturingHook) wait(t *testing.T) Envelope {
	t.Helper()
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("hook was not invoked")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.envelopes[len(h.envelopes)-1]
}

type panickyHook struct {
	done chan struct{}
}

func (h *panickyHook) Name() string { return "panicky" }

func (h *panickyHook) Handle(context.Context, Envelope) error {
	defer close(h.done)
	panic("boom")
}

func testEvent() *models.PickupEvent {
	return &models.PickupEvent{
		ID:              3,
		OrganisationID:  1,
		Title:           "Food Pickup",
		PickupDate:      "2026-09-10",
		Capacity:        2,
		StartTime:       "08:00:00",
		EndTime:         "08:40:00",
		IntervalMinutes: 20,
		BookingState:    models.BookingsOpen,
	}
}

func testBooking() *models.Booking {
	return &models.Booking{
		ID:            7,
		PickupEventID: 3,
		Name:          "Ada Obi",
		Phone:         "07700900001",
		PickupTime:    "08:20:00",
		PartySize:     2,
	}
}

func TestDispatcher_DeliversEnvelope(t *testing.T) {
	hook := newCapturingHook("capture", nil)
	logger := zerolog.Nop()
	d := NewDispatcher(&logger, hook)

	d.BookingCreated(testEvent(), testBooking())

	e := hook.wait(t)
	assert.Equal(t, KindBookingCreated, e.Kind)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.At.IsZero())
	require.NotNil(t, e.Booking)
	assert.Equal(t, int64(7), e.Booking.ID)
}

func TestDispatcher_FailingHookDoesNotStopOthers(t *testing.T) {
	failing := newCapturingHook("failing", errors.New("gateway down"))
	healthy := newCapturingHook("healthy", nil)
	logger := zerolog.Nop()
	d := NewDispatcher(&logger, failing, healthy)

	d.BookingCancelled(testEvent(), testBooking())

	assert.Equal(t, KindBookingCancelled, failing.wait(t).Kind)
	assert.Equal(t, KindBookingCancelled, healthy.wait(t).Kind)
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	bad := &panickyHook{done: make(chan struct{})}
	after := newCapturingHook("after", nil)
	logger := zerolog.Nop()
	d := NewDispatcher(&logger, bad, after)

	d.EventDeleted(testEvent(), 4)

	<-bad.done
	e := after.wait(t)
	assert.Equal(t, KindEventDeleted, e.Kind)
	assert.Equal(t, 4, e.RemovedBookings)
}
