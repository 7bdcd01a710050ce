package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/dept-routine-api/internal/models"
)

const weeklyScheduleColumns = "id, semester_id, department_id, day_of_week, start_time, end_time, course_id, room_id, is_break, note, created_at"

// RoutineRepository persists and reads weekly_schedules rows.
type RoutineRepository struct {
	db *sqlx.DB
}

// NewRoutineRepository builds the repository.
func NewRoutineRepository(db *sqlx.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

func (r *RoutineRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForDepartment deletes every row of the department and inserts rows in order.
// Rows without a day are skipped. Pass a transaction as exec to make the replace atomic.
func (r *RoutineRepository) ReplaceForDepartment(ctx context.Context, exec sqlx.ExtContext, departmentID int64, rows []models.WeeklySchedule) (int, error) {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM weekly_schedules WHERE department_id = $1`, departmentID); err != nil {
		return 0, fmt.Errorf("delete department routine: %w", err)
	}

	const insert = `
INSERT INTO weekly_schedules (semester_id, department_id, day_of_week, start_time, end_time, course_id, room_id, is_break, note, created_at)
VALUES (:semester_id, :department_id, :day_of_week, :start_time, :end_time, :course_id, :room_id, :is_break, :note, :created_at)`

	now := time.Now().UTC()
	inserted := 0
	for i := range rows {
		row := &rows[i]
		if row.DayOfWeek == nil {
			continue
		}
		row.DepartmentID = departmentID
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, insert, row); err != nil {
			return inserted, fmt.Errorf("insert routine entry: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// ListByDepartment returns the department's routine restricted to its own semesters.
func (r *RoutineRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.WeeklySchedule, error) {
	query := `SELECT ` + weeklyScheduleColumns + ` FROM weekly_schedules
WHERE department_id = $1 AND semester_id IN (SELECT id FROM semesters WHERE department_id = $1)
ORDER BY start_time ASC, id ASC`
	return r.list(ctx, "list department routine", query, departmentID)
}

// ListByRoom returns every routine row held in the room.
func (r *RoutineRepository) ListByRoom(ctx context.Context, roomID int64) ([]models.WeeklySchedule, error) {
	query := `SELECT ` + weeklyScheduleColumns + ` FROM weekly_schedules WHERE room_id = $1 ORDER BY start_time ASC, id ASC`
	return r.list(ctx, "list room routine", query, roomID)
}

// ListBySemester returns every routine row of the semester.
func (r *RoutineRepository) ListBySemester(ctx context.Context, semesterID int64) ([]models.WeeklySchedule, error) {
	query := `SELECT ` + weeklyScheduleColumns + ` FROM weekly_schedules WHERE semester_id = $1 ORDER BY start_time ASC, id ASC`
	return r.list(ctx, "list semester routine", query, semesterID)
}

// ListByCourse returns every routine row of the course.
func (r *RoutineRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.WeeklySchedule, error) {
	query := `SELECT ` + weeklyScheduleColumns + ` FROM weekly_schedules WHERE course_id = $1 ORDER BY start_time ASC, id ASC`
	return r.list(ctx, "list course routine", query, courseID)
}

// ListByCourses returns the routine rows of any of the given courses.
func (r *RoutineRepository) ListByCourses(ctx context.Context, courseIDs []int64) ([]models.WeeklySchedule, error) {
	if len(courseIDs) == 0 {
		return []models.WeeklySchedule{}, nil
	}
	query := `SELECT ` + weeklyScheduleColumns + ` FROM weekly_schedules WHERE course_id = ANY($1) ORDER BY start_time ASC, id ASC`
	return r.list(ctx, "list courses routine", query, pq.Array(courseIDs))
}

func (r *RoutineRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.WeeklySchedule, error) {
	var rows []models.WeeklySchedule
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
