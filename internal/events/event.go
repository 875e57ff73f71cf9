package events

import (
	"context"
	"time"
)

const (
	TypeBookingCreated = "booking.created"
	TypeBookingDecided = "booking.decided"
)

// BookingEvent is the audit record emitted after a booking change commits.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	ActorID    int64     `json:"actor_id"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers booking events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e BookingEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }
