package domain

import "time"

// SlotHold represents a temporary claim on one time slot for one in-progress booking flow.
// One reservation id owns one hold per event type user.
type SlotHold struct {
	ID            string // reservation id, shared by all holds of the same reservation
	UserID        int64
	EventTypeID   int64
	SlotStart     time.Time
	SlotEnd       time.Time
	IsSeatedEvent bool
	CreatedAt     time.Time
	ReleaseAt     time.Time
}

// IsExpired returns true if the hold is no longer valid at the given moment
func (h *SlotHold) IsExpired(now time.Time) bool {
	return !h.ReleaseAt.After(now)
}

// Overlaps returns true if the held slot intersects [start, end)
func (h *SlotHold) Overlaps(start, end time.Time) bool {
	return h.SlotStart.Before(end) && h.SlotEnd.After(start)
}
