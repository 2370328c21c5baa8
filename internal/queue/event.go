// Package queue defines slot events exchanged over the message broker.
package queue

// Routing keys
const (
	RoutingSlotHeld     = "slot.held"
	RoutingSlotReleased = "slot.released"
)

// SlotHeldEvent is published after holds were written for every user of a reservation.
type SlotHeldEvent struct {
	ReservationID string  `json:"reservation_id"`
	EventTypeID   int64   `json:"event_type_id"`
	UserIDs       []int64 `json:"user_ids"`
	SlotStart     string  `json:"slot_start"`
	SlotEnd       string  `json:"slot_end"`
	IsSeatedEvent bool    `json:"is_seated_event"`
	ReleaseAt     string  `json:"release_at"`
}

// SlotReleasedEvent is published when holds of a reservation were deleted.
type SlotReleasedEvent struct {
	ReservationID string `json:"reservation_id"`
	HoldsDeleted  int64  `json:"holds_deleted"`
	ReleasedAt    string `json:"released_at"`
}
