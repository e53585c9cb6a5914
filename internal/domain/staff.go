package domain

import "time"

// StaffMember a stylist who takes bookings
type StaffMember struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
