package scheduling

import "fmt"

// Conflict результат проверки предложенного интервала
type Conflict struct {
	Proposed    Interval
	Conflicting *Interval
}

// Available true, если пересечений нет
func (c Conflict) Available() bool {
	return c.Conflicting == nil
}

// Reason человекочитаемое описание конфликта
func (c Conflict) Reason() string {
	if c.Conflicting == nil {
		return ""
	}
	return fmt.Sprintf("el horario %s se cruza con la reserva #%d %s",
		c.Proposed, c.Conflicting.BookingID, c.Conflicting)
}

// DetectConflict ищет занятый интервал, пересекающийся с предложенным.
// При нескольких пересечениях возвращается самый ранний.
func DetectConflict(proposed Interval, busy []Interval) Conflict {
	result := Conflict{Proposed: proposed}
	for i := range busy {
		if !proposed.Overlaps(busy[i]) {
			continue
		}
		if result.Conflicting == nil || busy[i].Start < result.Conflicting.Start {
			found := busy[i]
			result.Conflicting = &found
		}
	}
	return result
}
