package service

import (
	"fmt"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

// HasConflict reports whether any destination entry shares the room, course or semester of moved.
func HasConflict(destination []dto.RoutineEntry, moved dto.RoutineEntry) bool {
	for _, entry := range destination {
		if sameRef(entry.RoomID, moved.RoomID) ||
			sameRef(entry.CourseID, moved.CourseID) ||
			sameRef(entry.SemesterID, moved.SemesterID) {
			return true
		}
	}
	return false
}

func sameRef(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

// ConflictChecker validates drag moves against an in-memory preview. It only sees the
// entries of that preview, never persisted routines.
type ConflictChecker struct {
	calendar RoutineCalendar
}

// NewConflictChecker builds a checker whose destination cells must belong to calendar.
func NewConflictChecker(calendar RoutineCalendar) *ConflictChecker {
	return &ConflictChecker{calendar: calendar}
}

// CheckMove returns nil when MoveEntry would succeed, without building the new preview.
func (c *ConflictChecker) CheckMove(preview []dto.RoutineEntry, from, to dto.RoutineCell, index int) error {
	if from == to {
		return nil
	}
	_, err := c.resolve(preview, from, to, index)
	return err
}

// MoveEntry moves the index-th entry of the from cell into the to cell and returns the
// new preview. A move within one cell returns preview as is. On error the input is untouched.
func (c *ConflictChecker) MoveEntry(preview []dto.RoutineEntry, from, to dto.RoutineCell, index int) ([]dto.RoutineEntry, error) {
	if from == to {
		return preview, nil
	}
	pos, err := c.resolve(preview, from, to, index)
	if err != nil {
		return nil, err
	}

	slot, _ := c.calendar.Contains(to.DayOfWeek, to.StartTime)
	moved := preview[pos]
	day := slot.Day
	start, end := slot.Start(), slot.End()
	moved.DayOfWeek = &day
	moved.StartTime = &start
	moved.EndTime = &end

	next := make([]dto.RoutineEntry, 0, len(preview))
	next = append(next, preview[:pos]...)
	next = append(next, preview[pos+1:]...)
	next = append(next, moved)
	return next, nil
}

// resolve returns the preview position of the entry to move.
func (c *ConflictChecker) resolve(preview []dto.RoutineEntry, from, to dto.RoutineCell, index int) (int, error) {
	source := positionsAt(preview, from)
	if len(source) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("no routine entry at %s %s", from.DayOfWeek, from.StartTime))
	}
	if index < 0 || index >= len(source) {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("entry index %d out of range for %s %s", index, from.DayOfWeek, from.StartTime))
	}
	pos := source[index]
	if _, ok := c.calendar.Contains(to.DayOfWeek, to.StartTime); !ok {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %s is not a routine slot", to.DayOfWeek, to.StartTime))
	}

	var destination []dto.RoutineEntry
	for _, i := range positionsAt(preview, to) {
		destination = append(destination, preview[i])
	}
	if HasConflict(destination, preview[pos]) {
		return 0, appErrors.Clone(appErrors.ErrMoveConflict, fmt.Sprintf("%s %s already holds the same room, course or semester", to.DayOfWeek, to.StartTime))
	}
	return pos, nil
}

func positionsAt(preview []dto.RoutineEntry, cell dto.RoutineCell) []int {
	var out []int
	for i, entry := range preview {
		if entry.At(cell) {
			out = append(out, i)
		}
	}
	return out
}
