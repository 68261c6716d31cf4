package handler

import (
	"net/http"

	"github.com/josiahuma/ovipoint/internal/capacity"
	"github.com/josiahuma/ovipoint/internal/dto"
	"github.com/josiahuma/ovipoint/internal/middleware"
	"github.com/josiahuma/ovipoint/internal/service"
	"github.com/josiahuma/ovipoint/pkg/cache"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	eventService   service.EventService
	bookingService service.BookingService
	cache          *cache.Cache
}

// NewEventHandler wires the event endpoints. cache may be nil; the
// availability view then recomputes on every request.
func NewEventHandler(eventService service.EventService, bookingService service.BookingService, cache *cache.Cache) *EventHandler {
	return &EventHandler{
		eventService:   eventService,
		bookingService: bookingService,
		cache:          cache,
	}
}

// CreateEvents creates one event per requested date, all sharing one
// definition.
func (h *EventHandler) CreateEvents(c echo.Context) error {
	var req dto.CreateEventsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	events, err := h.eventService.CreateEvents(c.Request().Context(), middleware.OrganisationID(c), service.EventInput{
		Title:           req.Title,
		Capacity:        req.Capacity,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		IntervalMinutes: req.IntervalMinutes,
	}, req.Dates)
	if err != nil {
		return toHTTPError(err)
	}

	resp := dto.CreateEventsResponse{CreatedCount: len(events)}
	for _, ev := range events {
		resp.CreatedIDs = append(resp.CreatedIDs, dto.ToEventResponse(ev).ID)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListEvents returns every event of the authenticated organisation, past
// ones included, for the admin dashboard.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.eventService.ListEvents(c.Request().Context(), middleware.OrganisationID(c))
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.ToEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	event, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), middleware.OrganisationID(c), id, service.EventInput{
		Title:           req.Title,
		Capacity:        req.Capacity,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		IntervalMinutes: req.IntervalMinutes,
	}, req.PickupDate)
	if err != nil {
		return toHTTPError(err)
	}

	h.cache.Delete(c.Request().Context(), cache.AvailabilityKey(id))
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) ToggleBookings(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ToggleBookingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.eventService.SetBookingsOpen(c.Request().Context(), middleware.OrganisationID(c), id, req.Open); err != nil {
		return toHTTPError(err)
	}

	event, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), middleware.OrganisationID(c), id); err != nil {
		return toHTTPError(err)
	}

	h.cache.Delete(c.Request().Context(), cache.AvailabilityKey(id))
	return c.NoContent(http.StatusNoContent)
}

// Availability is the public per-slot seat view. It is served from the
// cache when possible; writers invalidate the key, so a hit is at worst
// one TTL stale and the allocator never trusts it anyway.
func (h *EventHandler) Availability(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	key := cache.AvailabilityKey(id)
	var cached dto.AvailabilityResponse
	if h.cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	event, err := h.eventService.GetEvent(ctx, id)
	if err != nil {
		return toHTTPError(err)
	}
	bookings, err := h.bookingService.ListBookings(ctx, id)
	if err != nil {
		return toHTTPError(err)
	}
	ledger, err := capacity.Build(event, bookings)
	if err != nil {
		return toHTTPError(err)
	}

	resp := dto.ToAvailabilityResponse(event, ledger)
	h.cache.Set(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}
