package domain

import "time"

// AvailabilityUpdate is pushed over the websocket whenever a booking changes a
// slot's status, so connected clients can refresh counts without polling.
type AvailabilityUpdate struct {
	Type           string     `json:"type"` // "availability_update"
	ParkingID      int        `json:"parking_id"`
	SlotID         int        `json:"slot_id,omitempty"`
	SlotStatus     SlotStatus `json:"slot_status,omitempty"`
	AvailableSlots int        `json:"available_slots"`
	Timestamp      time.Time  `json:"timestamp"`
}

// BookingEvent is the message published to the event queue on booking
// lifecycle changes.
type BookingEvent struct {
	EventType  string    `json:"event_type"` // "booking_created", "booking_completed", "booking_cancelled"
	Reference  string    `json:"reference"`
	BookingID  int       `json:"booking_id"`
	UserID     int       `json:"user_id"`
	ParkingID  int       `json:"parking_id"`
	SlotID     int       `json:"slot_id"`
	FinalPrice float64   `json:"final_price"`
	OccurredAt time.Time `json:"occurred_at"`
}
