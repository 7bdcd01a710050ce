package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

func entryAt(day models.DayOfWeek, hour int, courseID, roomID, semesterID int64) dto.RoutineEntry {
	slot := Slot{Day: day, Hour: hour}
	start, end := slot.Start(), slot.End()
	return dto.RoutineEntry{
		SemesterID:   &semesterID,
		DepartmentID: 1,
		DayOfWeek:    &day,
		StartTime:    &start,
		EndTime:      &end,
		CourseID:     &courseID,
		RoomID:       &roomID,
	}
}

func cell(day models.DayOfWeek, start string) dto.RoutineCell {
	return dto.RoutineCell{DayOfWeek: day, StartTime: start}
}

func clonePreview(entries []dto.RoutineEntry) []dto.RoutineEntry {
	return append([]dto.RoutineEntry(nil), entries...)
}

func TestHasConflict(t *testing.T) {
	moved := entryAt(models.Sunday, 8, 100, 1, 20)

	assert.False(t, HasConflict(nil, moved))
	assert.True(t, HasConflict([]dto.RoutineEntry{entryAt(models.Monday, 9, 101, 1, 21)}, moved), "same room")
	assert.True(t, HasConflict([]dto.RoutineEntry{entryAt(models.Monday, 9, 100, 2, 21)}, moved), "same course")
	assert.True(t, HasConflict([]dto.RoutineEntry{entryAt(models.Monday, 9, 101, 2, 20)}, moved), "same semester")
	assert.False(t, HasConflict([]dto.RoutineEntry{entryAt(models.Monday, 9, 101, 2, 21)}, moved))

	remainder := dto.RoutineEntry{DepartmentID: 1}
	assert.False(t, HasConflict([]dto.RoutineEntry{remainder}, dto.RoutineEntry{DepartmentID: 1}))
}

func TestMoveEntryToEmptyCell(t *testing.T) {
	checker := NewConflictChecker(DefaultRoutineCalendar())
	preview := []dto.RoutineEntry{
		entryAt(models.Sunday, 8, 100, 1, 20),
		entryAt(models.Monday, 8, 101, 2, 21),
	}
	original := clonePreview(preview)

	moved, err := checker.MoveEntry(preview, cell(models.Sunday, "08:00"), cell(models.Wednesday, "11:00"), 0)
	require.NoError(t, err)

	require.Len(t, moved, 2)
	assert.Equal(t, int64(101), *moved[0].CourseID)
	last := moved[1]
	assert.Equal(t, int64(100), *last.CourseID)
	assert.Equal(t, models.Wednesday, *last.DayOfWeek)
	assert.Equal(t, "11:00", *last.StartTime)
	assert.Equal(t, "12:00", *last.EndTime)
	assert.Equal(t, original, preview, "input preview must not change")
}

func TestMoveEntryWithinSameCellIsNoop(t *testing.T) {
	checker := NewConflictChecker(DefaultRoutineCalendar())
	preview := []dto.RoutineEntry{entryAt(models.Sunday, 8, 100, 1, 20)}

	moved, err := checker.MoveEntry(preview, cell(models.Sunday, "08:00"), cell(models.Sunday, "08:00"), 5)
	require.NoError(t, err)
	assert.Equal(t, preview, moved)
}

func TestMoveEntryConflictLeavesPreviewUnchanged(t *testing.T) {
	checker := NewConflictChecker(DefaultRoutineCalendar())
	preview := []dto.RoutineEntry{
		entryAt(models.Sunday, 8, 100, 1, 20),
		entryAt(models.Monday, 9, 101, 1, 21),
	}
	original := clonePreview(preview)

	moved, err := checker.MoveEntry(preview, cell(models.Sunday, "08:00"), cell(models.Monday, "09:00"), 0)
	require.Error(t, err)
	assert.Nil(t, moved)
	assert.Equal(t, appErrors.ErrMoveConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, preview, 2)
	assert.Equal(t, original, preview)

	assert.Error(t, checker.CheckMove(preview, cell(models.Sunday, "08:00"), cell(models.Monday, "09:00"), 0))
}

func TestMoveEntryPicksIndexWithinSourceCell(t *testing.T) {
	checker := NewConflictChecker(DefaultRoutineCalendar())
	preview := []dto.RoutineEntry{
		entryAt(models.Sunday, 8, 100, 1, 20),
		entryAt(models.Monday, 8, 102, 3, 22),
		entryAt(models.Sunday, 8, 101, 2, 21),
	}

	moved, err := checker.MoveEntry(preview, cell(models.Sunday, "08:00"), cell(models.Thursday, "16:00"), 1)
	require.NoError(t, err)
	require.Len(t, moved, 3)
	assert.Equal(t, []int64{100, 102, 101}, []int64{*moved[0].CourseID, *moved[1].CourseID, *moved[2].CourseID})
	assert.Equal(t, models.Thursday, *moved[2].DayOfWeek)
	assert.Equal(t, models.Sunday, *moved[0].DayOfWeek)
}

func TestMoveEntryValidation(t *testing.T) {
	checker := NewConflictChecker(DefaultRoutineCalendar())
	preview := []dto.RoutineEntry{entryAt(models.Sunday, 8, 100, 1, 20)}

	cases := map[string]struct {
		from, to dto.RoutineCell
		index    int
	}{
		"empty source":        {cell(models.Monday, "08:00"), cell(models.Tuesday, "08:00"), 0},
		"index out of range":  {cell(models.Sunday, "08:00"), cell(models.Tuesday, "08:00"), 1},
		"negative index":      {cell(models.Sunday, "08:00"), cell(models.Tuesday, "08:00"), -1},
		"day outside routine": {cell(models.Sunday, "08:00"), cell(models.Friday, "08:00"), 0},
		"hour outside":        {cell(models.Sunday, "08:00"), cell(models.Tuesday, "17:00"), 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := checker.MoveEntry(preview, tc.from, tc.to, tc.index)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestCheckMoveAcceptsFreeCell(t *testing.T) {
	checker := NewConflictChecker(DefaultRoutineCalendar())
	preview := []dto.RoutineEntry{
		entryAt(models.Sunday, 8, 100, 1, 20),
		entryAt(models.Monday, 9, 101, 2, 21),
	}
	original := clonePreview(preview)

	assert.NoError(t, checker.CheckMove(preview, cell(models.Sunday, "08:00"), cell(models.Monday, "09:00"), 0))
	assert.Equal(t, original, preview)
}
