package domain

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// allowedTransitions admin status workflow; completed and cancelled are terminal
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OccupiesSlots returns true if a booking in this status blocks the staff calendar
func (s BookingStatus) OccupiesSlots() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking represents a client appointment with one staff member
type Booking struct {
	ID              int64
	StaffID         int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int // sum of service durations at creation time
	TotalPrice      float64
	Status          BookingStatus

	ClientName  string
	ClientPhone string
	ClientEmail *string
	Notes       *string

	// Ordered as requested by the client
	Services []BookingService

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingService links a booking to a service and snapshots the service at booking time
type BookingService struct {
	BookingID       int64
	ServiceID       int64
	Position        int
	ServiceName     string
	Price           float64
	DurationMinutes int
}

// OccupiesSlots returns true if the booking blocks its time range
func (b *Booking) OccupiesSlots() bool {
	return b.Status.OccupiesSlots()
}

// CanTransitionTo reports whether the admin workflow allows moving to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanBeRescheduled returns true while the booking still holds its slot
func (b *Booking) CanBeRescheduled() bool {
	return b.OccupiesSlots()
}

// SnapshotDuration returns the duration recorded in the booking's service links,
// falling back to the stored total when no links were loaded
func (b *Booking) SnapshotDuration() int {
	if len(b.Services) == 0 {
		return b.DurationMinutes
	}
	total := 0
	for _, s := range b.Services {
		total += s.DurationMinutes
	}
	return total
}

// ServiceIDs returns the linked service ids in booking order
func (b *Booking) ServiceIDs() []int64 {
	ids := make([]int64, 0, len(b.Services))
	for _, s := range b.Services {
		ids = append(ids, s.ServiceID)
	}
	return ids
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	StaffID          *int64
	Date             *time.Time
	Statuses         []BookingStatus // пусто - любые статусы
	ClientPhone      *string
	ExcludeBookingID *int64
}

// OccupyingFilter фильтр бронирований, занимающих слоты мастера в указанный день
func OccupyingFilter(staffID int64, date time.Time, excludeBookingID *int64) BookingsFilter {
	return BookingsFilter{
		StaffID:          &staffID,
		Date:             &date,
		Statuses:         OccupyingStatuses,
		ExcludeBookingID: excludeBookingID,
	}
}
