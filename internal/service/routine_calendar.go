package service

import (
	"fmt"
	"iter"

	"github.com/noah-isme/dept-routine-api/internal/models"
	"github.com/noah-isme/dept-routine-api/pkg/config"
)

const (
	defaultFirstHour = 8
	defaultLastHour  = 17
)

// Slot is one (day, hour) cell of the weekly calendar. Hour is the 24h start hour.
type Slot struct {
	Day  models.DayOfWeek
	Hour int
}

// Start formats the slot start as "HH:00".
func (s Slot) Start() string {
	return formatHour(s.Hour)
}

// End formats the slot end as "HH:00".
func (s Slot) End() string {
	return formatHour(s.Hour + 1)
}

func formatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// RoutineCalendar enumerates the schedulable slots: Days in order, hours in [FirstHour, LastHour).
type RoutineCalendar struct {
	Days      []models.DayOfWeek
	FirstHour int
	LastHour  int
}

// DefaultRoutineCalendar is SUNDAY..THURSDAY with one-hour slots from 08:00 to 17:00.
func DefaultRoutineCalendar() RoutineCalendar {
	return RoutineCalendar{
		Days:      []models.DayOfWeek{models.Sunday, models.Monday, models.Tuesday, models.Wednesday, models.Thursday},
		FirstHour: defaultFirstHour,
		LastHour:  defaultLastHour,
	}
}

// RoutineCalendarFromConfig builds the calendar from config, falling back to the
// default calendar when the days or hours are invalid.
func RoutineCalendarFromConfig(cfg config.RoutineConfig) RoutineCalendar {
	calendar := RoutineCalendar{FirstHour: cfg.FirstHour, LastHour: cfg.LastHour}
	seen := make(map[models.DayOfWeek]bool, len(cfg.Days))
	for _, raw := range cfg.Days {
		day := models.DayOfWeek(raw)
		if !day.Valid() || seen[day] {
			return DefaultRoutineCalendar()
		}
		seen[day] = true
		calendar.Days = append(calendar.Days, day)
	}
	if calendar.Validate() != nil {
		return DefaultRoutineCalendar()
	}
	return calendar
}

// Validate checks the calendar has at least one day and one hour within a single day.
func (c RoutineCalendar) Validate() error {
	if len(c.Days) == 0 {
		return fmt.Errorf("calendar requires at least one day")
	}
	if c.FirstHour < 0 || c.LastHour > 24 || c.FirstHour >= c.LastHour {
		return fmt.Errorf("calendar hours must satisfy 0 <= first < last <= 24, got %d..%d", c.FirstHour, c.LastHour)
	}
	return nil
}

// Hours yields the start hours of one day in order.
func (c RoutineCalendar) Hours() iter.Seq[int] {
	return func(yield func(int) bool) {
		for hour := c.FirstHour; hour < c.LastHour; hour++ {
			if !yield(hour) {
				return
			}
		}
	}
}

// Slots yields every slot, day-major. The sequence can be ranged over any number of times.
func (c RoutineCalendar) Slots() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for _, day := range c.Days {
			for hour := range c.Hours() {
				if !yield(Slot{Day: day, Hour: hour}) {
					return
				}
			}
		}
	}
}

// Size is the number of slots in the week.
func (c RoutineCalendar) Size() int {
	if c.LastHour <= c.FirstHour {
		return 0
	}
	return len(c.Days) * (c.LastHour - c.FirstHour)
}

// Contains reports whether the cell names a calendar day and an hourly start time.
func (c RoutineCalendar) Contains(day models.DayOfWeek, start string) (Slot, bool) {
	hasDay := false
	for _, d := range c.Days {
		if d == day {
			hasDay = true
			break
		}
	}
	if !hasDay {
		return Slot{}, false
	}
	for hour := range c.Hours() {
		if formatHour(hour) == start {
			return Slot{Day: day, Hour: hour}, true
		}
	}
	return Slot{}, false
}
