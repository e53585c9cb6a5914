package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// ErrInvalidWorkingHours returned by WorkingHoursWindow.Validate
var ErrInvalidWorkingHours = errors.New("domain: invalid working hours")

// WorkingHoursWindow bookable window of a day: slots start at Open and step by
// SlotMinutes up to and including LastStart
type WorkingHoursWindow struct {
	Open        types.TimeString
	LastStart   types.TimeString
	SlotMinutes int
}

// DefaultWindow the salon window used when nothing else is configured
func DefaultWindow() WorkingHoursWindow {
	return WorkingHoursWindow{
		Open:        DefaultOpenTime,
		LastStart:   DefaultLastStartTime,
		SlotMinutes: DefaultSlotMinutes,
	}
}

// Validate checks the window invariants
func (w WorkingHoursWindow) Validate() error {
	open, err := w.Open.Minutes()
	if err != nil {
		return fmt.Errorf("%w: open: %v", ErrInvalidWorkingHours, err)
	}
	last, err := w.LastStart.Minutes()
	if err != nil {
		return fmt.Errorf("%w: lastStart: %v", ErrInvalidWorkingHours, err)
	}
	if w.SlotMinutes < MinSlotMinutes || w.SlotMinutes > MaxSlotMinutes {
		return fmt.Errorf("%w: slotMinutes must be between %d and %d",
			ErrInvalidWorkingHours, MinSlotMinutes, MaxSlotMinutes)
	}
	if last < open {
		return fmt.Errorf("%w: lastStart %s is before open %s", ErrInvalidWorkingHours, w.LastStart, w.Open)
	}
	if (last-open)%w.SlotMinutes != 0 {
		return fmt.Errorf("%w: lastStart %s is not on the %d minute grid from %s",
			ErrInvalidWorkingHours, w.LastStart, w.SlotMinutes, w.Open)
	}
	return nil
}

// CloseMinutes minute of the day when the last slot ends
func (w WorkingHoursWindow) CloseMinutes() (int, error) {
	last, err := w.LastStart.Minutes()
	if err != nil {
		return 0, err
	}
	return last + w.SlotMinutes, nil
}

// ScheduleLevel which level of the hierarchy produced a DaySchedule
type ScheduleLevel string

const (
	ScheduleLevelStaff        ScheduleLevel = "staff"
	ScheduleLevelSalonDay     ScheduleLevel = "salon_day"
	ScheduleLevelSalonDefault ScheduleLevel = "salon_default"
)

// DaySchedule resolved working hours of a staff member for one weekday
type DaySchedule struct {
	Weekday time.Weekday
	IsOpen  bool
	Window  WorkingHoursWindow
	Level   ScheduleLevel
}

// StaffSchedule per-staff override for one weekday.
// Priority: staff weekday > salon weekday > salon default
type StaffSchedule struct {
	ID        int64
	StaffID   int64
	Weekday   time.Weekday
	IsOpen    bool
	Window    WorkingHoursWindow // zero value when the day is closed
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToDaySchedule converts a stored override into a resolved day
func (s *StaffSchedule) ToDaySchedule() DaySchedule {
	return DaySchedule{
		Weekday: s.Weekday,
		IsOpen:  s.IsOpen,
		Window:  s.Window,
		Level:   ScheduleLevelStaff,
	}
}

// SalonDay salon-wide override of one weekday
type SalonDay struct {
	IsOpen bool
	Window WorkingHoursWindow
}

// SalonSchedule salon-wide working hours loaded from configuration
type SalonSchedule struct {
	Default WorkingHoursWindow
	Days    map[time.Weekday]SalonDay
}

// DefaultSalonSchedule every day open with the default window
func DefaultSalonSchedule() SalonSchedule {
	return SalonSchedule{Default: DefaultWindow()}
}

// ForWeekday resolves the salon level of the hierarchy
func (s SalonSchedule) ForWeekday(weekday time.Weekday) DaySchedule {
	if day, ok := s.Days[weekday]; ok {
		return DaySchedule{
			Weekday: weekday,
			IsOpen:  day.IsOpen,
			Window:  day.Window,
			Level:   ScheduleLevelSalonDay,
		}
	}
	return DaySchedule{
		Weekday: weekday,
		IsOpen:  true,
		Window:  s.Default,
		Level:   ScheduleLevelSalonDefault,
	}
}
