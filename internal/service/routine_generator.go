package service

import (
	"fmt"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
)

// RoutineResult is the outcome of one generation run.
type RoutineResult struct {
	Placed     []dto.RoutineEntry
	Unassigned []dto.RoutineEntry
	Stats      dto.RoutineStats
}

// GenerateRoutine places every eligible course's weekly sessions into the calendar.
//
// Courses are handled in slice order and each takes the least loaded day that still
// has a slot where its teacher, its semester and some available room are all free,
// at most one session per day. Rooms are tried in slice order. The outcome depends on
// both orders; callers should pass them sorted. Sessions that cannot be placed are
// reported as one unassigned entry per course.
func GenerateRoutine(departmentID int64, courses []models.Course, rooms []models.Room, calendar RoutineCalendar) RoutineResult {
	tracker := newAvailabilityTracker()
	available := availableRooms(rooms)

	dayLoad := make(map[models.DayOfWeek]int, len(calendar.Days))
	for _, day := range calendar.Days {
		dayLoad[day] = 0
	}

	result := RoutineResult{
		Placed:     []dto.RoutineEntry{},
		Unassigned: []dto.RoutineEntry{},
	}

	for _, course := range courses {
		if !course.Eligible() {
			continue
		}
		required := course.Credits
		if required < 0 {
			required = 0
		}
		result.Stats.Courses++
		result.Stats.RequiredSessions += required

		assigned := 0
		explored := make(map[models.DayOfWeek]bool, len(calendar.Days))
		for assigned < required {
			day, ok := leastLoadedDay(calendar.Days, dayLoad, explored)
			if !ok {
				break
			}
			// placed or exhausted, the day is done for this course
			explored[day] = true

			slot, roomID, ok := firstFreeSlot(tracker, calendar, day, course, available)
			if !ok {
				continue
			}
			tracker.Reserve(resourceTeacher, *course.TeacherID, day, slot.Hour)
			tracker.Reserve(resourceRoom, roomID, day, slot.Hour)
			tracker.Reserve(resourceSemester, *course.SemesterID, day, slot.Hour)

			result.Placed = append(result.Placed, placedEntry(departmentID, course, roomID, slot))
			assigned++
			dayLoad[day]++
		}

		if assigned < required {
			result.Unassigned = append(result.Unassigned, remainderEntry(departmentID, course, assigned, required))
			result.Stats.UnassignedSessions += required - assigned
		}
	}

	result.Stats.PlacedSessions = len(result.Placed)
	result.Stats.DayLoad = dayLoad
	return result
}

func availableRooms(rooms []models.Room) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Status == models.RoomAvailable {
			out = append(out, room)
		}
	}
	return out
}

// leastLoadedDay returns the unexplored day with the smallest load, the earliest on ties.
func leastLoadedDay(days []models.DayOfWeek, load map[models.DayOfWeek]int, explored map[models.DayOfWeek]bool) (models.DayOfWeek, bool) {
	var (
		best  models.DayOfWeek
		found bool
	)
	for _, day := range days {
		if explored[day] {
			continue
		}
		if !found || load[day] < load[best] {
			best = day
			found = true
		}
	}
	return best, found
}

func firstFreeSlot(tracker *availabilityTracker, calendar RoutineCalendar, day models.DayOfWeek, course models.Course, rooms []models.Room) (Slot, int64, bool) {
	for hour := range calendar.Hours() {
		if !tracker.IsFree(resourceTeacher, *course.TeacherID, day, hour) ||
			!tracker.IsFree(resourceSemester, *course.SemesterID, day, hour) {
			continue
		}
		for _, room := range rooms {
			if tracker.IsFree(resourceRoom, room.ID, day, hour) {
				return Slot{Day: day, Hour: hour}, room.ID, true
			}
		}
	}
	return Slot{}, 0, false
}

func placedEntry(departmentID int64, course models.Course, roomID int64, slot Slot) dto.RoutineEntry {
	day := slot.Day
	start, end := slot.Start(), slot.End()
	courseID, semesterID := course.ID, *course.SemesterID
	return dto.RoutineEntry{
		SemesterID:   &semesterID,
		DepartmentID: departmentID,
		DayOfWeek:    &day,
		StartTime:    &start,
		EndTime:      &end,
		CourseID:     &courseID,
		RoomID:       &roomID,
		IsBreak:      false,
	}
}

func remainderEntry(departmentID int64, course models.Course, assigned, required int) dto.RoutineEntry {
	courseID, semesterID := course.ID, *course.SemesterID
	return dto.RoutineEntry{
		SemesterID:   &semesterID,
		DepartmentID: departmentID,
		CourseID:     &courseID,
		IsBreak:      false,
		Note:         fmt.Sprintf("Could not assign all required classes (%d/%d).", assigned, required),
	}
}
