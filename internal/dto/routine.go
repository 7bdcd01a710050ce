package dto

import (
	"time"

	"github.com/noah-isme/dept-routine-api/internal/models"
)

// RoutineEntry is the wire form of one routine row, shared by previews and persisted schedules.
// A nil DayOfWeek marks an unassigned remainder carrying a Note instead of slot coordinates.
type RoutineEntry struct {
	SemesterID   *int64            `json:"semesterId"`
	DepartmentID int64             `json:"departmentId"`
	DayOfWeek    *models.DayOfWeek `json:"dayOfWeek"`
	StartTime    *string           `json:"startTime"`
	EndTime      *string           `json:"endTime"`
	CourseID     *int64            `json:"courseId"`
	RoomID       *int64            `json:"roomId"`
	IsBreak      bool              `json:"isBreak"`
	Note         string            `json:"note,omitempty"`
}

// Placed reports whether the entry occupies a calendar slot.
func (e RoutineEntry) Placed() bool {
	return e.DayOfWeek != nil && e.StartTime != nil
}

// At reports whether the entry sits in the given cell.
func (e RoutineEntry) At(cell RoutineCell) bool {
	return e.Placed() && *e.DayOfWeek == cell.DayOfWeek && *e.StartTime == cell.StartTime
}

// RoutineCell addresses one (day, start time) cell of the routine grid.
type RoutineCell struct {
	DayOfWeek models.DayOfWeek `json:"dayOfWeek" validate:"required"`
	StartTime string           `json:"startTime" validate:"required"`
}

// RoutineStats summarises one generation run.
type RoutineStats struct {
	Courses            int                      `json:"courses"`
	RequiredSessions   int                      `json:"requiredSessions"`
	PlacedSessions     int                      `json:"placedSessions"`
	UnassignedSessions int                      `json:"unassignedSessions"`
	DayLoad            map[models.DayOfWeek]int `json:"dayLoad"`
}

// PreviewRoutineRequest asks the generator for a department preview.
type PreviewRoutineRequest struct {
	DepartmentID int64 `json:"departmentId" validate:"required,min=1"`
}

// RoutinePreview is a generated, unsaved routine held in the preview store.
type RoutinePreview struct {
	PreviewID    string         `json:"previewId"`
	DepartmentID int64          `json:"departmentId"`
	Routine      []RoutineEntry `json:"routine"`
	Unassigned   []RoutineEntry `json:"unassigned"`
	Stats        RoutineStats   `json:"stats"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

// MoveRoutineEntryRequest drags the Index-th entry of the From cell into the To cell.
type MoveRoutineEntryRequest struct {
	From  RoutineCell `json:"from" validate:"required"`
	To    RoutineCell `json:"to" validate:"required"`
	Index int         `json:"index" validate:"min=0"`
}

// MoveCheckResult reports whether a move would be accepted.
type MoveCheckResult struct {
	OK bool `json:"ok"`
}

// SaveRoutineRequest commits either a stored preview or a client-held routine.
type SaveRoutineRequest struct {
	PreviewID string         `json:"previewId"`
	Routine   []RoutineEntry `json:"routine"`
}

// SaveRoutineResponse reports how many rows replaced the department routine.
type SaveRoutineResponse struct {
	Message       string `json:"message"`
	DepartmentID  int64  `json:"departmentId"`
	InsertedCount int    `json:"insertedCount"`
}

// RoutineQuery selects the persisted routine of one department.
type RoutineQuery struct {
	DepartmentID int64 `form:"departmentId" validate:"required,min=1"`
}

// ExportRoutineQuery selects the department and output format of a routine export.
type ExportRoutineQuery struct {
	DepartmentID int64  `form:"departmentId" validate:"required,min=1"`
	Format       string `form:"format" validate:"omitempty,oneof=csv pdf xlsx"`
}
