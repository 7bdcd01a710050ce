package models

import "time"

// DayOfWeek names a weekday the way it is stored and sent on the wire.
type DayOfWeek string

const (
	Sunday    DayOfWeek = "SUNDAY"
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
)

var weekOrder = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Week returns every day in calendar order starting from Sunday.
func Week() []DayOfWeek {
	return append([]DayOfWeek(nil), weekOrder...)
}

// Valid reports whether d is one of SUNDAY..SATURDAY.
func (d DayOfWeek) Valid() bool {
	return d.Index() >= 0
}

// Index returns the position of d in the week, or -1 when unknown.
func (d DayOfWeek) Index() int {
	for i, day := range weekOrder {
		if day == d {
			return i
		}
	}
	return -1
}

// WeeklySchedule is one persisted routine row. Rows with a nil DayOfWeek are never stored.
type WeeklySchedule struct {
	ID           int64      `db:"id" json:"id"`
	SemesterID   *int64     `db:"semester_id" json:"semesterId"`
	DepartmentID int64      `db:"department_id" json:"departmentId"`
	DayOfWeek    *DayOfWeek `db:"day_of_week" json:"dayOfWeek"`
	StartTime    *string    `db:"start_time" json:"startTime"`
	EndTime      *string    `db:"end_time" json:"endTime"`
	CourseID     *int64     `db:"course_id" json:"courseId"`
	RoomID       *int64     `db:"room_id" json:"roomId"`
	IsBreak      bool       `db:"is_break" json:"isBreak"`
	Note         *string    `db:"note" json:"note,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
