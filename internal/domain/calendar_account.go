package domain

// CalendarProvider external calendar provider kind
type CalendarProvider string

const (
	ProviderCalendly CalendarProvider = "calendly"
	ProviderGoogle   CalendarProvider = "google"
)

// CalendarAccount external calendar connected by a user
type CalendarAccount struct {
	ID           int64
	UserID       int64
	Provider     CalendarProvider
	ExternalRef  string // Calendly user URI or Google calendar id
	EncryptedKey string // credential, encrypted with the service encryption key
}

// SourceName identifier of the account used in logs and MissingSources
func (a *CalendarAccount) SourceName() string {
	return string(a.Provider) + ":" + a.ExternalRef
}
