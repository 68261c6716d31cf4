package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/josiahuma/ovipoint/internal/models"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the database. Transaction takes
// the store mutex for its whole body, which reproduces the serialization
// the event row lock gives the real allocator, and restores a snapshot
// when the body fails so partial writes roll back.
type memStore struct {
	mu            sync.Mutex
	events        map[int64]*models.PickupEvent
	bookings      map[int64]*models.Booking
	nextEventID   int64
	nextBookingID int64
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[int64]*models.PickupEvent),
		bookings: make(map[int64]*models.Booking),
	}
}

func (s *memStore) snapshot() (map[int64]*models.PickupEvent, map[int64]*models.Booking) {
	events := make(map[int64]*models.PickupEvent, len(s.events))
	for id, ev := range s.events {
		cp := *ev
		events[id] = &cp
	}
	bookings := make(map[int64]*models.Booking, len(s.bookings))
	for id, b := range s.bookings {
		cp := *b
		bookings[id] = &cp
	}
	return events, bookings
}

type fakeEventRepo struct {
	s *memStore
}

func (r *fakeEventRepo) CreateBatch(_ context.Context, events []*models.PickupEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ev := range events {
		r.s.nextEventID++
		ev.ID = r.s.nextEventID
		cp := *ev
		r.s.events[ev.ID] = &cp
	}
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id int64) (*models.PickupEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.findLocked(id)
}

func (r *fakeEventRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id int64) (*models.PickupEvent, error) {
	return r.findLocked(id)
}

func (r *fakeEventRepo) findLocked(id int64) (*models.PickupEvent, error) {
	ev, ok := r.s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ev
	return &cp, nil
}

func (r *fakeEventRepo) FindByOrganisation(_ context.Context, orgID int64) ([]models.PickupEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.PickupEvent
	for _, ev := range r.s.events {
		if ev.OrganisationID == orgID {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PickupDate != out[j].PickupDate {
			return out[i].PickupDate < out[j].PickupDate
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fakeEventRepo) FindByOrganisationAndDate(_ context.Context, orgID int64, date string) ([]models.PickupEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.PickupEvent
	for _, ev := range r.s.events {
		if ev.OrganisationID == orgID && ev.PickupDate == date {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.PickupEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *event
	r.s.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) UpdateBookingState(_ context.Context, id int64, state models.BookingState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ev.BookingState = state
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, _ *gorm.DB, id int64) error {
	delete(r.s.events, id)
	return nil
}

type fakeBookingRepo struct {
	s *memStore

	failDeleteByEvent bool
}

func (r *fakeBookingRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	events, bookings := r.s.snapshot()
	if err := fn(nil); err != nil {
		r.s.events = events
		r.s.bookings = bookings
		return err
	}
	return nil
}

func (r *fakeBookingRepo) Create(_ context.Context, _ *gorm.DB, booking *models.Booking) error {
	r.s.nextBookingID++
	booking.ID = r.s.nextBookingID
	cp := *booking
	r.s.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, _ *gorm.DB, booking *models.Booking) error {
	if _, ok := r.s.bookings[booking.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *booking
	r.s.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, _ *gorm.DB, id int64) error {
	delete(r.s.bookings, id)
	return nil
}

func (r *fakeBookingRepo) DeleteByEvent(_ context.Context, _ *gorm.DB, eventID int64) error {
	if r.failDeleteByEvent {
		return errors.New("delete failed")
	}
	for id, b := range r.s.bookings {
		if b.PickupEventID == eventID {
			delete(r.s.bookings, id)
		}
	}
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.findLocked(id)
}

func (r *fakeBookingRepo) FindByIDTx(_ context.Context, _ *gorm.DB, id int64) (*models.Booking, error) {
	return r.findLocked(id)
}

func (r *fakeBookingRepo) findLocked(id int64) (*models.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindByEvent(_ context.Context, eventID int64) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byEventLocked(eventID), nil
}

func (r *fakeBookingRepo) FindByEventTx(_ context.Context, _ *gorm.DB, eventID int64) ([]models.Booking, error) {
	return r.byEventLocked(eventID), nil
}

func (r *fakeBookingRepo) byEventLocked(eventID int64) []models.Booking {
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.PickupEventID == eventID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PickupTime != out[j].PickupTime {
			return out[i].PickupTime < out[j].PickupTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeBookingRepo) FindByPhone(_ context.Context, _ *gorm.DB, eventID int64, phone string, excludeID int64) (*models.Booking, error) {
	for _, b := range r.s.bookings {
		if b.PickupEventID == eventID && b.Phone == phone && b.ID != excludeID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookingRepo) FindByEventsAndPhone(_ context.Context, eventIDs []int64, phone string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[int64]bool, len(eventIDs))
	for _, id := range eventIDs {
		ids[id] = true
	}
	var out []models.Booking
	for _, b := range r.s.bookings {
		if ids[b.PickupEventID] && b.Phone == phone {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu      sync.Mutex
	kinds   []string
	removed int
}

func (n *recordingNotifier) record(kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *recordingNotifier) BookingCreated(*models.PickupEvent, *models.Booking) {
	n.record("booking.created")
}

func (n *recordingNotifier) BookingUpdated(*models.PickupEvent, *models.Booking) {
	n.record("booking.updated")
}

func (n *recordingNotifier) BookingCancelled(*models.PickupEvent, *models.Booking) {
	n.record("booking.cancelled")
}

func (n *recordingNotifier) EventDeleted(_ *models.PickupEvent, removedBookings int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, "event.deleted")
	n.removed = removedBookings
}
