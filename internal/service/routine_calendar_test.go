package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/dept-routine-api/internal/models"
	"github.com/noah-isme/dept-routine-api/pkg/config"
)

func TestDefaultRoutineCalendarSlots(t *testing.T) {
	calendar := DefaultRoutineCalendar()

	var slots []Slot
	for slot := range calendar.Slots() {
		slots = append(slots, slot)
	}

	assert.Len(t, slots, 45)
	assert.Equal(t, 45, calendar.Size())
	assert.Equal(t, Slot{Day: models.Sunday, Hour: 8}, slots[0])
	assert.Equal(t, Slot{Day: models.Sunday, Hour: 16}, slots[8])
	assert.Equal(t, Slot{Day: models.Monday, Hour: 8}, slots[9])
	assert.Equal(t, Slot{Day: models.Thursday, Hour: 16}, slots[44])
	assert.Equal(t, "08:00", slots[0].Start())
	assert.Equal(t, "17:00", slots[44].End())
}

func TestRoutineCalendarIsRestartable(t *testing.T) {
	seq := DefaultRoutineCalendar().Slots()

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, count(), count())

	first := 0
	for range seq {
		first++
		if first == 3 {
			break
		}
	}
	assert.Equal(t, 3, first)
}

func TestRoutineCalendarFromConfig(t *testing.T) {
	calendar := RoutineCalendarFromConfig(config.RoutineConfig{Days: []string{"MONDAY", "TUESDAY"}, FirstHour: 9, LastHour: 12})
	assert.Equal(t, []models.DayOfWeek{models.Monday, models.Tuesday}, calendar.Days)
	assert.Equal(t, 6, calendar.Size())

	invalid := []config.RoutineConfig{
		{Days: []string{"MONDAY", "FUNDAY"}, FirstHour: 8, LastHour: 17},
		{Days: []string{"MONDAY", "MONDAY"}, FirstHour: 8, LastHour: 17},
		{Days: []string{"MONDAY"}, FirstHour: 17, LastHour: 8},
		{Days: nil, FirstHour: 8, LastHour: 17},
	}
	for _, cfg := range invalid {
		assert.Equal(t, DefaultRoutineCalendar(), RoutineCalendarFromConfig(cfg))
	}
}

func TestRoutineCalendarContains(t *testing.T) {
	calendar := DefaultRoutineCalendar()

	slot, ok := calendar.Contains(models.Tuesday, "10:00")
	assert.True(t, ok)
	assert.Equal(t, Slot{Day: models.Tuesday, Hour: 10}, slot)

	_, ok = calendar.Contains(models.Friday, "10:00")
	assert.False(t, ok)
	_, ok = calendar.Contains(models.Tuesday, "17:00")
	assert.False(t, ok)
	_, ok = calendar.Contains(models.Tuesday, "10:30")
	assert.False(t, ok)
}

func TestAvailabilityTracker(t *testing.T) {
	tracker := newAvailabilityTracker()
	assert.True(t, tracker.IsFree(resourceTeacher, 1, models.Sunday, 8))

	tracker.Reserve(resourceTeacher, 1, models.Sunday, 8)
	assert.False(t, tracker.IsFree(resourceTeacher, 1, models.Sunday, 8))
	assert.True(t, tracker.IsFree(resourceRoom, 1, models.Sunday, 8))
	assert.True(t, tracker.IsFree(resourceTeacher, 1, models.Sunday, 9))
	assert.True(t, tracker.IsFree(resourceTeacher, 1, models.Monday, 8))
	assert.True(t, tracker.IsFree(resourceTeacher, 2, models.Sunday, 8))
}
