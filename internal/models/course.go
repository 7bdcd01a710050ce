package models

import "time"

// Course is a schedulable unit. Credits is the number of weekly sessions it needs.
type Course struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	Credits      int       `db:"credits" json:"credits"`
	DepartmentID int64     `db:"department_id" json:"departmentId"`
	TeacherID    *int64    `db:"teacher_id" json:"teacherId"`
	SemesterID   *int64    `db:"semester_id" json:"semesterId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Eligible reports whether the course has both a teacher and a semester assigned.
func (c Course) Eligible() bool {
	return c.TeacherID != nil && c.SemesterID != nil
}

// RoomStatus describes whether a room can host classes.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomUnavailable RoomStatus = "UNAVAILABLE"
)

// Room is a physical classroom owned by a department.
type Room struct {
	ID           int64      `db:"id" json:"id"`
	Number       string     `db:"room_number" json:"roomNumber"`
	DepartmentID int64      `db:"department_id" json:"departmentId"`
	Status       RoomStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
