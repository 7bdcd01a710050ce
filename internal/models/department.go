package models

import "time"

// Department owns courses, rooms, semesters and one weekly routine.
type Department struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Semester groups the students who attend a set of courses together.
type Semester struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Session      string    `db:"session" json:"session"`
	DepartmentID int64     `db:"department_id" json:"departmentId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
