package scheduling

import (
	"fmt"

	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

// Interval занятый промежуток [Start, End) в минутах от полуночи
type Interval struct {
	BookingID int64
	Start     int
	End       int
}

// NewInterval интервал, начинающийся в start и длящийся duration минут
func NewInterval(bookingID int64, start types.TimeString, duration int) (Interval, error) {
	m, err := start.Minutes()
	if err != nil {
		return Interval{}, err
	}
	return Interval{BookingID: bookingID, Start: m, End: m + duration}, nil
}

// Overlaps стандартная проверка пересечения полуоткрытых интервалов.
// Интервалы, которые только соприкасаются (конец одного = начало другого), не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Contains минута m попадает в [Start, End)
func (i Interval) Contains(m int) bool {
	return i.Start <= m && m < i.End
}

// Duration длина интервала в минутах
func (i Interval) Duration() int {
	return i.End - i.Start
}

// StartTime начало в формате HH:MM
func (i Interval) StartTime() string {
	return formatMinutes(i.Start)
}

// EndTime конец в формате HH:MM (может быть 24:00 и позже для бронирований до полуночи)
func (i Interval) EndTime() string {
	return formatMinutes(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.StartTime(), i.EndTime())
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
