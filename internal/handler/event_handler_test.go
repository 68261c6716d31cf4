package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/josiahuma/ovipoint/internal/dto"
	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/josiahuma/ovipoint/internal/service"
	"github.com/josiahuma/ovipoint/pkg/cache"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock EventService ---

type mockEventService struct {
	createFn       func(ctx context.Context, orgID int64, in service.EventInput, dates []string) ([]*models.PickupEvent, error)
	getFn          func(ctx context.Context, id int64) (*models.PickupEvent, error)
	listFn         func(ctx context.Context, orgID int64) ([]models.PickupEvent, error)
	listUpcomingFn func(ctx context.Context, orgID int64) ([]models.PickupEvent, error)
	updateFn       func(ctx context.Context, actorOrgID, eventID int64, in service.EventInput, date string) (*models.PickupEvent, error)
	setOpenFn      func(ctx context.Context, actorOrgID, eventID int64, open bool) error
	deleteFn       func(ctx context.Context, actorOrgID, eventID int64) error
}

func (m *mockEventService) CreateEvents(ctx context.Context, orgID int64, in service.EventInput, dates []string) ([]*models.PickupEvent, error) {
	return m.createFn(ctx, orgID, in, dates)
}
func (m *mockEventService) GetEvent(ctx context.Context, id int64) (*models.PickupEvent, error) {
	return m.getFn(ctx, id)
}
func (m *mockEventService) ListEvents(ctx context.Context, orgID int64) ([]models.PickupEvent, error) {
	return m.listFn(ctx, orgID)
}
func (m *mockEventService) ListUpcomingEvents(ctx context.Context, orgID int64) ([]models.PickupEvent, error) {
	return m.listUpcomingFn(ctx, orgID)
}
func (m *mockEventService) UpdateEvent(ctx context.Context, actorOrgID, eventID int64, in service.EventInput, date string) (*models.PickupEvent, error) {
	return m.updateFn(ctx, actorOrgID, eventID, in, date)
}
func (m *mockEventService) SetBookingsOpen(ctx context.Context, actorOrgID, eventID int64, open bool) error {
	return m.setOpenFn(ctx, actorOrgID, eventID, open)
}
func (m *mockEventService) DeleteEvent(ctx context.Context, actorOrgID, eventID int64) error {
	return m.deleteFn(ctx, actorOrgID, eventID)
}

func sampleEvent() *models.PickupEvent {
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

func eventContext(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

// --- Tests ---

func TestGetEvent_Handler(t *testing.T) {
	svc := &mockEventService{
		getFn: func(ctx context.Context, id int64) (*models.PickupEvent, error) {
			return sampleEvent(), nil
		},
	}

	c, rec := eventContext(http.MethodGet, "/api/events/3", "", "3")

	h := NewEventHandler(svc, nil, nil)
	require.NoError(t, h.GetEvent(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "3", resp.ID)
	assert.Equal(t, 3, resp.SlotCount)
	assert.Equal(t, 6, resp.TotalCapacity)
}

func TestGetEvent_Handler_NotFound(t *testing.T) {
	svc := &mockEventService{
		getFn: func(ctx context.Context, id int64) (*models.PickupEvent, error) {
			return nil, service.ErrEventNotFound
		},
	}

	c, _ := eventContext(http.MethodGet, "/api/events/3", "", "3")

	h := NewEventHandler(svc, nil, nil)
	err := h.GetEvent(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateEvents_Handler(t *testing.T) {
	svc := &mockEventService{
		createFn: func(ctx context.Context, orgID int64, in service.EventInput, dates []string) ([]*models.PickupEvent, error) {
			assert.Equal(t, []string{"2026-09-05", "2026-09-12"}, dates)
			out := make([]*models.PickupEvent, len(dates))
			for i, d := range dates {
				ev := sampleEvent()
				ev.ID = int64(i + 1)
				ev.PickupDate = d
				out[i] = ev
			}
			return out, nil
		},
	}

	body := `{"title":"Food Pickup","dates":["2026-09-05","2026-09-12"],"capacity":2,"start_time":"08:00","end_time":"08:40","interval_minutes":20}`
	c, rec := eventContext(http.MethodPost, "/api/admin/events", body, "")

	h := NewEventHandler(svc, nil, nil)
	require.NoError(t, h.CreateEvents(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CreateEventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.CreatedCount)
	assert.Equal(t, []string{"1", "2"}, resp.CreatedIDs)
}

func TestCreateEvents_Handler_InvalidConfig(t *testing.T) {
	svc := &mockEventService{
		createFn: func(ctx context.Context, orgID int64, in service.EventInput, dates []string) ([]*models.PickupEvent, error) {
			return nil, service.ErrInvalidEventConfig
		},
	}

	c, _ := eventContext(http.MethodPost, "/api/admin/events", `{"title":""}`, "")

	h := NewEventHandler(svc, nil, nil)
	err := h.CreateEvents(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestToggleBookings_Handler(t *testing.T) {
	paused := sampleEvent()
	paused.BookingState = models.BookingsPaused

	var gotOpen *bool
	svc := &mockEventService{
		setOpenFn: func(ctx context.Context, actorOrgID, eventID int64, open bool) error {
			gotOpen = &open
			return nil
		},
		getFn: func(ctx context.Context, id int64) (*models.PickupEvent, error) {
			return paused, nil
		},
	}

	c, rec := eventContext(http.MethodPatch, "/api/admin/events/3/bookings", `{"open":false}`, "3")

	h := NewEventHandler(svc, nil, nil)
	require.NoError(t, h.ToggleBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotOpen)
	assert.False(t, *gotOpen)

	var resp dto.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(models.BookingsPaused), resp.BookingState)
}

func TestDeleteEvent_Handler_Forbidden(t *testing.T) {
	svc := &mockEventService{
		deleteFn: func(ctx context.Context, actorOrgID, eventID int64) error {
			return service.ErrForbidden
		},
	}

	c, _ := eventContext(http.MethodDelete, "/api/admin/events/3", "", "3")

	h := NewEventHandler(svc, nil, nil)
	err := h.DeleteEvent(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestAvailability_Handler(t *testing.T) {
	eventSvc := &mockEventService{
		getFn: func(ctx context.Context, id int64) (*models.PickupEvent, error) {
			return sampleEvent(), nil
		},
	}
	bookingSvc := &mockBookingService{
		listFn: func(ctx context.Context, eventID int64) ([]models.Booking, error) {
			return []models.Booking{
				{ID: 1, PickupEventID: eventID, PickupTime: "08:00:00", PartySize: 2},
				{ID: 2, PickupEventID: eventID, PickupTime: "08:20:00", PartySize: 1},
			}, nil
		},
	}

	c, rec := eventContext(http.MethodGet, "/api/events/3/availability", "", "3")

	h := NewEventHandler(eventSvc, bookingSvc, nil)
	require.NoError(t, h.Availability(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, 0, resp.Slots[0].Remaining)
	assert.Equal(t, 1, resp.Slots[1].Remaining)
	assert.Equal(t, 2, resp.Slots[2].Remaining)
	assert.Equal(t, 3, resp.TotalUsed)
	assert.Equal(t, 6, resp.TotalCapacity)
	assert.False(t, resp.EventFull)
}

func TestAvailability_Handler_ServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	availabilityCache := cache.New(rdb, time.Minute)

	calls := 0
	eventSvc := &mockEventService{
		getFn: func(ctx context.Context, id int64) (*models.PickupEvent, error) {
			calls++
			return sampleEvent(), nil
		},
	}
	bookingSvc := &mockBookingService{
		listFn: func(ctx context.Context, eventID int64) ([]models.Booking, error) {
			return nil, nil
		},
	}

	h := NewEventHandler(eventSvc, bookingSvc, availabilityCache)

	c, rec := eventContext(http.MethodGet, "/api/events/3/availability", "", "3")
	require.NoError(t, h.Availability(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = eventContext(http.MethodGet, "/api/events/3/availability", "", "3")
	require.NoError(t, h.Availability(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, calls)
}
