package dto

import (
	"strconv"

	"github.com/josiahuma/ovipoint/internal/capacity"
	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/josiahuma/ovipoint/internal/slots"
)

// Identifiers are serialized as strings: they are opaque tokens and may
// exceed what JSON consumers can hold in a float64.

type OrganisationResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	AdminEmail      string `json:"admin_email,omitempty"`
	SMSContactPhone string `json:"sms_contact_phone,omitempty"`
}

type SessionResponse struct {
	Token        string               `json:"token"`
	Organisation OrganisationResponse `json:"organisation"`
}

type EventResponse struct {
	ID              string `json:"id"`
	OrganisationID  string `json:"organisation_id"`
	Title           string `json:"title"`
	PickupDate      string `json:"pickup_date"`
	Capacity        int    `json:"capacity"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	IntervalMinutes int    `json:"interval_minutes"`
	BookingState    string `json:"booking_state"`
	SlotCount       int    `json:"slot_count"`
	TotalCapacity   int    `json:"total_capacity"`
}

type CreateEventsResponse struct {
	CreatedCount int      `json:"created_count"`
	CreatedIDs   []string `json:"created_ids"`
}

type BookingResponse struct {
	ID         string `json:"id"`
	PickupTime string `json:"pickup_time"`
	PartySize  int    `json:"party_size"`
}

type BookingDetailResponse struct {
	ID            string `json:"id"`
	PickupEventID string `json:"pickup_event_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PickupTime    string `json:"pickup_time"`
	PartySize     int    `json:"party_size"`
}

type FoundBookingResponse struct {
	Booking BookingDetailResponse `json:"booking"`
	Event   EventResponse         `json:"event"`
}

type SlotAvailability struct {
	Time      string `json:"time"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Low       bool   `json:"low"`
}

type AvailabilityResponse struct {
	EventID       string             `json:"event_id"`
	Capacity      int                `json:"capacity"`
	Slots         []SlotAvailability `json:"slots"`
	TotalUsed     int                `json:"total_used"`
	TotalCapacity int                `json:"total_capacity"`
	EventFull     bool               `json:"event_full"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func ToOrganisationResponse(org *models.Organisation, includePrivate bool) OrganisationResponse {
	resp := OrganisationResponse{
		ID:   formatID(org.ID),
		Name: org.Name,
		Slug: org.Slug,
	}
	if includePrivate {
		resp.AdminEmail = org.AdminEmail
		resp.SMSContactPhone = org.SMSContactPhone
	}
	return resp
}

func ToEventResponse(ev *models.PickupEvent) EventResponse {
	count := slots.Count(ev.StartTime, ev.EndTime, ev.IntervalMinutes)
	return EventResponse{
		ID:              formatID(ev.ID),
		OrganisationID:  formatID(ev.OrganisationID),
		Title:           ev.Title,
		PickupDate:      ev.PickupDate,
		Capacity:        ev.Capacity,
		StartTime:       ev.StartTime,
		EndTime:         ev.EndTime,
		IntervalMinutes: ev.IntervalMinutes,
		BookingState:    string(ev.BookingState),
		SlotCount:       count,
		TotalCapacity:   ev.Capacity * count,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:         formatID(b.ID),
		PickupTime: b.PickupTime,
		PartySize:  b.PartySize,
	}
}

func ToBookingDetailResponse(b *models.Booking) BookingDetailResponse {
	return BookingDetailResponse{
		ID:            formatID(b.ID),
		PickupEventID: formatID(b.PickupEventID),
		Name:          b.Name,
		Phone:         b.Phone,
		Address:       b.Address,
		PickupTime:    b.PickupTime,
		PartySize:     b.PartySize,
	}
}

func ToAvailabilityResponse(ev *models.PickupEvent, ledger *capacity.Ledger) AvailabilityResponse {
	low := ledger.LowSeatThreshold()
	slotViews := make([]SlotAvailability, 0, len(ledger.Slots))
	for _, s := range ledger.Slots {
		remaining := ledger.Remaining(s)
		slotViews = append(slotViews, SlotAvailability{
			Time:      s,
			Used:      ledger.Used[s],
			Remaining: remaining,
			Low:       remaining > 0 && remaining <= low,
		})
	}
	return AvailabilityResponse{
		EventID:       formatID(ev.ID),
		Capacity:      ev.Capacity,
		Slots:         slotViews,
		TotalUsed:     ledger.TotalUsed,
		TotalCapacity: ledger.TotalCapacity,
		EventFull:     ledger.EventFull(),
	}
}
