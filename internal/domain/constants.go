package domain

import "time"

// Default configuration values
const (
	DefaultHoldWriteTimeout    = 5000 * time.Millisecond
	DefaultHoldTTL             = 15 * time.Minute
	DefaultLookahead           = 10 * time.Minute
	DefaultWindowDays          = 6
	DefaultCalendlyBaseURL     = "https://api.calendly.com"
	DefaultProviderHTTPTimeout = 10 * time.Second
)

// Capacity decision reasons
const (
	ReasonSeatsUnlimited   = "seats_unlimited"
	ReasonAttendeesUnknown = "attendees_unknown"
	ReasonSlotFull         = "slot_full"
	ReasonSeatsAvailable   = "seats_available"
)

// HoldSourcePrefix prefix of the source field for busy intervals built from internal holds
const HoldSourcePrefix = "selected-slot:"
