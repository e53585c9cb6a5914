package domain

// Salon default working window
const (
	DefaultOpenTime      = "09:00"
	DefaultLastStartTime = "17:30"
	DefaultSlotMinutes   = 30
)

// Business validation constants
const (
	MinSlotMinutes            = 5
	MaxSlotMinutes            = 240
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxServicesPerBooking     = 10
	MaxNotesLength            = 500
	MaxClientNameLength       = 120
	MaxStaffNameLength        = 120
	MaxServiceNameLength      = 120
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы бронирований, которые занимают слоты
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// DurationPolicy how the occupied length of an existing booking is computed
type DurationPolicy string

const (
	// DurationSnapshot uses durations frozen in booking_services at creation time
	DurationSnapshot DurationPolicy = "snapshot"
	// DurationLive re-reads current service durations
	DurationLive DurationPolicy = "live"
)

// IsValid returns true for a known policy
func (p DurationPolicy) IsValid() bool {
	return p == DurationSnapshot || p == DurationLive
}
