package service

import "github.com/josiahuma/ovipoint/internal/models"

// Notifier receives booking outcomes after the transaction has committed.
// Implementations must be fire-and-forget: they run outside the allocator's
// transaction and their failures never affect the booking result.
type Notifier interface {
	BookingCreated(event *models.PickupEvent, booking *models.Booking)
	BookingUpdated(event *models.PickupEvent, booking *models.Booking)
	BookingCancelled(event *models.PickupEvent, booking *models.Booking)
	EventDeleted(event *models.PickupEvent, removedBookings int)
}
