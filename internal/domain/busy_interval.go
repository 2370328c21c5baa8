package domain

import "time"

// BusyInterval a normalized period during which a user is unavailable
type BusyInterval struct {
	Start  time.Time
	End    time.Time
	Source string // originating identifier, empty if the provider supplies none
}

// Availability result of busy-time aggregation.
// Busy is neither sorted nor deduplicated across sources.
type Availability struct {
	Busy           []BusyInterval
	MissingSources []string // accounts whose fetch failed in at least one window
}

// IsPartial returns true if at least one source could not be fetched
func (a *Availability) IsPartial() bool {
	return len(a.MissingSources) > 0
}
