package domain

// UserRef reference to a host user assigned to an event type
type UserRef struct {
	ID int64
}

// EventType represents the subset of an event type needed for slot reservation
type EventType struct {
	ID               int64
	TeamID           *int64 // NULL = personal event type
	SeatsPerTimeSlot *int   // NULL = not seated, one hold occupies the whole slot
	LengthMinutes    int
	Users            []UserRef
}

// IsSeated returns true if the event type accepts several attendees per slot
func (e *EventType) IsSeated() bool {
	return e.SeatsPerTimeSlot != nil
}

// HasSeatLimit returns true if the seat count is set and positive
// Zero seats marks the event as seated but does not limit admission
func (e *EventType) HasSeatLimit() bool {
	return e.SeatsPerTimeSlot != nil && *e.SeatsPerTimeSlot > 0
}

// IsTeamEvent returns true if the event type belongs to a team
func (e *EventType) IsTeamEvent() bool {
	return e.TeamID != nil
}
