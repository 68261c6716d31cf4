package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ovipoint",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ovipoint",
			Name:      "booking_updated_total",
			Help:      "Count of bookings edited.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ovipoint",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ovipoint",
			Name:      "booking_rejected_total",
			Help:      "Count of rejected booking attempts by reason.",
		},
		[]string{"reason"},
	)

	smsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ovipoint",
			Name:      "sms_sent_total",
			Help:      "Count of SMS delivery attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingUpdated, bookingCancelled, bookingRejected, smsSent)
	})
}

func IncBookingCreated()   { bookingCreated.Inc() }
func IncBookingUpdated()   { bookingUpdated.Inc() }
func IncBookingCancelled() { bookingCancelled.Inc() }

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncSMSSent(outcome string) {
	smsSent.WithLabelValues(outcome).Inc()
}
