package models

import "time"

type BookingState string

const (
	BookingsOpen   BookingState = "open"
	BookingsPaused BookingState = "paused"
)

// PickupEvent is a single date's pickup opportunity. Times are naive
// wall-clock values on the event's date: PickupDate is "YYYY-MM-DD",
// StartTime/EndTime are "HH:MM:SS". Slots are never stored; they are
// re-derived from the window and interval.
type PickupEvent struct {
	ID              int64        `gorm:"primaryKey" json:"id"`
	OrganisationID  int64        `gorm:"not null;index" json:"organisation_id"`
	Title           string       `gorm:"not null" json:"title"`
	PickupDate      string       `gorm:"type:varchar(10);not null;index" json:"pickup_date"`
	Capacity        int          `gorm:"not null" json:"capacity"`
	StartTime       string       `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime         string       `gorm:"type:varchar(8);not null" json:"end_time"`
	IntervalMinutes int          `gorm:"not null" json:"interval_minutes"`
	BookingState    BookingState `gorm:"type:varchar(10);not null;default:'open'" json:"booking_state"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
