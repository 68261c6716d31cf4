package models

import "time"

// Booking reserves PartySize seats at one slot of a pickup event. The
// phone number is the natural de-duplication key within an event: at most
// one booking per (event, phone), enforced both by the allocator and by a
// composite unique index.
type Booking struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	PickupEventID int64     `gorm:"not null;index;uniqueIndex:idx_event_phone" json:"pickup_event_id"`
	Name          string    `gorm:"not null" json:"name"`
	Phone         string    `gorm:"not null;uniqueIndex:idx_event_phone" json:"phone"`
	Address       string    `gorm:"not null" json:"address"`
	PickupTime    string    `gorm:"type:varchar(8);not null" json:"pickup_time"`
	PartySize     int       `gorm:"not null;default:1" json:"party_size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Event *PickupEvent `gorm:"foreignKey:PickupEventID" json:"event,omitempty"`
}
