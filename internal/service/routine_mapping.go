package service

import (
	"sort"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
)

// toWeeklySchedules converts placed entries into rows; unassigned remainders are dropped.
func toWeeklySchedules(departmentID int64, entries []dto.RoutineEntry) []models.WeeklySchedule {
	rows := make([]models.WeeklySchedule, 0, len(entries))
	for _, entry := range entries {
		if !entry.Placed() {
			continue
		}
		row := models.WeeklySchedule{
			SemesterID:   entry.SemesterID,
			DepartmentID: departmentID,
			DayOfWeek:    entry.DayOfWeek,
			StartTime:    entry.StartTime,
			EndTime:      entry.EndTime,
			CourseID:     entry.CourseID,
			RoomID:       entry.RoomID,
			IsBreak:      entry.IsBreak,
		}
		if entry.Note != "" {
			note := entry.Note
			row.Note = &note
		}
		rows = append(rows, row)
	}
	return rows
}

func toRoutineEntries(rows []models.WeeklySchedule) []dto.RoutineEntry {
	entries := make([]dto.RoutineEntry, 0, len(rows))
	for _, row := range rows {
		entry := dto.RoutineEntry{
			SemesterID:   row.SemesterID,
			DepartmentID: row.DepartmentID,
			DayOfWeek:    row.DayOfWeek,
			StartTime:    row.StartTime,
			EndTime:      row.EndTime,
			CourseID:     row.CourseID,
			RoomID:       row.RoomID,
			IsBreak:      row.IsBreak,
		}
		if row.Note != nil {
			entry.Note = *row.Note
		}
		entries = append(entries, entry)
	}
	return entries
}

// sortByDayAndStart orders entries by weekday then start time, keeping the input order on ties.
func sortByDayAndStart(entries []dto.RoutineEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := dayRank(entries[i].DayOfWeek), dayRank(entries[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return deref(entries[i].StartTime) < deref(entries[j].StartTime)
	})
}

// dayRank puts entries without a day last.
func dayRank(day *models.DayOfWeek) int {
	if day == nil || !day.Valid() {
		return len(models.Week())
	}
	return day.Index()
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
