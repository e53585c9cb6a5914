package models

import (
	"time"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
)

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

// Request модели

// UpsertScheduleRequest переопределение рабочих часов мастера на день недели.
// Weekday: 0 = domingo ... 6 = sábado
type UpsertScheduleRequest struct {
	StaffID     int64   `json:"-"`
	Weekday     int     `json:"weekday"`
	Closed      bool    `json:"cerrado"`
	Open        *string `json:"apertura,omitempty"`   // "09:00"
	LastStart   *string `json:"ultimaCita,omitempty"` // "17:30"
	SlotMinutes *int    `json:"intervalo,omitempty"`  // по умолчанию 30
}

// Response модели

// DayScheduleResponse рабочие часы мастера на день недели с уровнем иерархии
type DayScheduleResponse struct {
	Weekday    int    `json:"weekday"`
	Dia        string `json:"dia"`
	Abierto    bool   `json:"abierto"`
	Apertura   string `json:"apertura,omitempty"`
	UltimaCita string `json:"ultimaCita,omitempty"`
	Intervalo  int    `json:"intervalo,omitempty"`
	TotalSlots int    `json:"totalSlots"`
	Nivel      string `json:"nivel"`
}

// WeekScheduleResponse расписание мастера на неделю
type WeekScheduleResponse struct {
	StaffID int64                 `json:"staffId"`
	Dias    []DayScheduleResponse `json:"dias"`
}

// Методы конвертации

// FromDaySchedule конвертирует рассчитанный день в DTO
func FromDaySchedule(d domain.DaySchedule, totalSlots int) DayScheduleResponse {
	resp := DayScheduleResponse{
		Weekday:    int(d.Weekday),
		Dia:        weekdayNames[d.Weekday],
		Abierto:    d.IsOpen,
		TotalSlots: totalSlots,
		Nivel:      string(d.Level),
	}
	if d.IsOpen {
		resp.Apertura = d.Window.Open.String()
		resp.UltimaCita = d.Window.LastStart.String()
		resp.Intervalo = d.Window.SlotMinutes
	}
	return resp
}
