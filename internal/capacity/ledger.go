// Package capacity computes per-slot and aggregate seat usage for an
// event. It is a pure read-only computation: the allocator recomputes it
// from rows read inside its own transaction immediately before writing.
package capacity

import (
	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/josiahuma/ovipoint/internal/slots"
)

// Ledger maps each enumerated slot to seats used and seats remaining.
type Ledger struct {
	Slots           []string
	CapacityPerSlot int
	Used            map[string]int

	TotalUsed     int
	TotalCapacity int
}

// Build computes a ledger from the event's window and the current
// bookings. Bookings at off-grid times (possible after an admin narrows a
// window) still count toward TotalUsed but have no slot row of their own.
func Build(event *models.PickupEvent, bookings []models.Booking) (*Ledger, error) {
	enumerated, err := slots.Enumerate(event.StartTime, event.EndTime, event.IntervalMinutes)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		Slots:           enumerated,
		CapacityPerSlot: event.Capacity,
		Used:            make(map[string]int, len(enumerated)),
		TotalCapacity:   event.Capacity * len(enumerated),
	}
	for _, s := range enumerated {
		l.Used[s] = 0
	}

	for _, b := range bookings {
		size := b.PartySize
		if size < 1 {
			size = 1
		}
		if _, ok := l.Used[b.PickupTime]; ok {
			l.Used[b.PickupTime] += size
		}
		l.TotalUsed += size
	}
	return l, nil
}

// Remaining returns the free seats at a slot, never negative.
func (l *Ledger) Remaining(slot string) int {
	r := l.CapacityPerSlot - l.Used[slot]
	if r < 0 {
		return 0
	}
	return r
}

// SlotFull reports whether the slot has no free seats.
func (l *Ledger) SlotFull(slot string) bool {
	return l.Remaining(slot) == 0
}

// EventFull reports whether the event as a whole has no free seats.
func (l *Ledger) EventFull() bool {
	return l.TotalUsed >= l.TotalCapacity
}

// LowSeatThreshold is the "almost full" display threshold: the larger of
// 3 seats or 20% of the per-slot capacity. Presentation aid only.
func (l *Ledger) LowSeatThreshold() int {
	pct := l.CapacityPerSlot / 5
	if pct > 3 {
		return pct
	}
	return 3
}
