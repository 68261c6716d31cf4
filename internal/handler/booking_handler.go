package handler

import (
	"net/http"
	"strconv"

	"github.com/josiahuma/ovipoint/internal/dto"
	"github.com/josiahuma/ovipoint/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Phone == "" || req.PickupTime == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, phone and pickup_time are required")
	}

	booking, err := h.bookingService.CreateBooking(c.Request().Context(), eventID, service.BookingInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		PickupTime: req.PickupTime,
		PartySize:  req.PartySize,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingDetailResponse(booking))
}

// ListBookedSlots is the public listing: id, slot and party size only, so
// the booking page can grey out taken times without exposing who booked.
func (h *BookingHandler) ListBookedSlots(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListBookings(c.Request().Context(), eventID)
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, dto.ToBookingResponse(&bookings[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// ListBookings returns an event's bookings in pickup order. Phone numbers
// and addresses are included; this route sits behind admin auth.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListBookings(c.Request().Context(), eventID)
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]dto.BookingDetailResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, dto.ToBookingDetailResponse(&bookings[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingService.GetBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingDetailResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Phone == "" || req.PickupTime == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, phone and pickup_time are required")
	}

	booking, err := h.bookingService.UpdateBooking(c.Request().Context(), id, service.BookingInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		PickupTime: req.PickupTime,
		PartySize:  req.PartySize,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingDetailResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bookingService.CancelBooking(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FindBookings is the self-service lookup: a member enters the
// organisation, date and phone they booked with and gets their bookings
// back, each paired with its event.
func (h *BookingHandler) FindBookings(c echo.Context) error {
	var req dto.FindBookingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	orgID, err := strconv.ParseInt(req.OrganisationID, 10, 64)
	if err != nil || orgID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organisation_id")
	}
	if req.PickupDate == "" || req.Phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pickup_date and phone are required")
	}

	found, err := h.bookingService.FindBookings(c.Request().Context(), orgID, req.PickupDate, req.Phone)
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]dto.FoundBookingResponse, 0, len(found))
	for i := range found {
		out = append(out, dto.FoundBookingResponse{
			Booking: dto.ToBookingDetailResponse(&found[i].Booking),
			Event:   dto.ToEventResponse(&found[i].Event),
		})
	}
	return c.JSON(http.StatusOK, out)
}
