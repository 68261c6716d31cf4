package notify

import (
	"context"
	"fmt"

	"github.com/josiahuma/ovipoint/internal/models"
	"github.com/josiahuma/ovipoint/internal/repository"
	"github.com/josiahuma/ovipoint/pkg/cache"
)

// MessagePublisher is satisfied by pkg/rabbitmq.Publisher.
type MessagePublisher interface {
	Publish(routingKey string, payload any) error
}

// QueueHook forwards every envelope to the message exchange, keyed by
// envelope kind.
type QueueHook struct {
	publisher MessagePublisher
}

func NewQueueHook(publisher MessagePublisher) *QueueHook {
	return &QueueHook{publisher: publisher}
}

func (h *QueueHook) Name() string { return "queue" }

func (h *QueueHook) Handle(_ context.Context, e Envelope) error {
	return h.publisher.Publish(e.Kind, e)
}

// TextSender is satisfied by SMSSender.
type TextSender interface {
	Send(ctx context.Context, to, message string) error
}

// SMSHook texts the member a confirmation and alerts the organisation's
// contact phone, when one is configured.
type SMSHook struct {
	sender  TextSender
	orgRepo repository.OrganisationRepository
}

func NewSMSHook(sender TextSender, orgRepo repository.OrganisationRepository) *SMSHook {
	return &SMSHook{sender: sender, orgRepo: orgRepo}
}

func (h *SMSHook) Name() string { return "sms" }

func (h *SMSHook) Handle(ctx context.Context, e Envelope) error {
	if e.Booking == nil || e.Event == nil {
		return nil
	}

	org, err := h.orgRepo.FindByID(ctx, e.Event.OrganisationID)
	if err != nil {
		return fmt.Errorf("load organisation %d: %w", e.Event.OrganisationID, err)
	}

	member, admin := h.messages(e, org)
	if member != "" {
		if err := h.sender.Send(ctx, e.Booking.Phone, member); err != nil {
			return err
		}
	}
	if admin != "" && org.SMSContactPhone != "" {
		if err := h.sender.Send(ctx, org.SMSContactPhone, admin); err != nil {
			return err
		}
	}
	return nil
}

func (h *SMSHook) messages(e Envelope, org *models.Organisation) (member, admin string) {
	b, ev := e.Booking, e.Event
	when := fmt.Sprintf("%s at %s", ev.PickupDate, shortTime(b.PickupTime))

	switch e.Kind {
	case KindBookingCreated:
		member = fmt.Sprintf("Hi %s, your pickup for %s on %s is booked (party of %d). %s",
			b.Name, ev.Title, when, b.PartySize, org.Name)
		admin = fmt.Sprintf("New booking: %s (%s), %s, party of %d.",
			b.Name, b.Phone, when, b.PartySize)
	case KindBookingUpdated:
		member = fmt.Sprintf("Hi %s, your pickup for %s was updated to %s (party of %d). %s",
			b.Name, ev.Title, when, b.PartySize, org.Name)
		admin = fmt.Sprintf("Booking updated: %s (%s), now %s, party of %d.",
			b.Name, b.Phone, when, b.PartySize)
	case KindBookingCancelled:
		member = fmt.Sprintf("Hi %s, your pickup for %s on %s has been cancelled. %s",
			b.Name, ev.Title, when, org.Name)
		admin = fmt.Sprintf("Booking cancelled: %s (%s), %s.", b.Name, b.Phone, when)
	}
	return member, admin
}

func shortTime(hhmmss string) string {
	if len(hhmmss) >= 5 {
		return hhmmss[:5]
	}
	return hhmmss
}

// CacheHook drops the cached availability view for the touched event so
// the next read recomputes it.
type CacheHook struct {
	cache *cache.Cache
}

func NewCacheHook(c *cache.Cache) *CacheHook {
	return &CacheHook{cache: c}
}

func (h *CacheHook) Name() string { return "cache" }

func (h *CacheHook) Handle(ctx context.Context, e Envelope) error {
	if e.Event == nil {
		return nil
	}
	h.cache.Delete(ctx, cache.AvailabilityKey(e.Event.ID))
	return nil
}
