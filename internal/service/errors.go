package service

import "errors"

// Expected, caller-facing outcomes. Handlers map these to HTTP statuses;
// anything else that escapes a service is an internal persistence error.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrOrganisationNotFound = errors.New("organisation not found")
	ErrForbidden            = errors.New("event belongs to another organisation")
	ErrBookingsClosed       = errors.New("bookings are currently paused for this event")
	ErrEventPast            = errors.New("this pickup date has passed")
	ErrInvalidSlot          = errors.New("pickup time is not an available slot for this event")
	ErrDuplicatePhone       = errors.New("a booking already exists for this event with that phone number")
	ErrCapacityExceeded     = errors.New("that time slot is full for your group size")
	ErrInvalidEventConfig   = errors.New("invalid event configuration")
	ErrSlugTaken            = errors.New("that URL is already taken")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)
